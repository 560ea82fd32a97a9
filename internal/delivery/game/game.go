package game

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"goban/internal/domain/game"
	"goban/internal/domain/goban"
	errs "goban/internal/errors"
	"goban/internal/httpresponse"
	gameuc "goban/internal/usecase/game"
	"goban/internal/utils"
)

type GameHandler struct {
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
	hub    *watcherHub
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewGameHandler(log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	h := &GameHandler{
		log:    log,
		gameUC: gameUC,
		hub:    newWatcherHub(log),
	}
	gameUC.OnPosition(func(pos game.Position) {
		h.hub.broadcast(pos)
	})
	return h
}

func (g *GameHandler) Routes(r chi.Router) {
	r.Route("/board", func(r chi.Router) {
		r.Get("/", g.HandleGetBoard)
		r.Get("/text", g.HandleGetBoardText)
		r.Get("/chain", g.HandleGetChain)
		r.Get("/moves", g.HandleGetMoves)
		r.Get("/watch", g.HandleWatch)
		r.Post("/check", g.HandleCheckMove)
		r.Post("/play", g.HandlePlayMove)
		r.Post("/reset", g.HandleReset)
	})
}

// statusFor maps a rejected move to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrWrongTurn):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidColor),
		errors.Is(err, errs.ErrNotStone),
		errors.Is(err, errs.ErrOffBoard),
		errors.Is(err, errs.ErrOccupied),
		errors.Is(err, errs.ErrKo),
		errors.Is(err, errs.ErrSuicide):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (g *GameHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, g.gameUC.Position())
}

func (g *GameHandler) HandleGetBoardText(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteText(w, http.StatusOK, g.gameUC.Render())
}

func (g *GameHandler) HandleGetChain(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		g.log.Warnf("bad chain query: %s", r.URL.RawQuery)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "x and y must be integers")
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, g.gameUC.ChainAt(goban.Pt(x, y)))
}

func (g *GameHandler) HandleGetMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := g.gameUC.Moves(r.Context())
	if err != nil {
		g.log.Errorf("failed to list moves: %v", err)
		httpresponse.WriteErrorResponse(w, http.StatusInternalServerError, errs.ErrInternal.Error())
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, moves)
}

func (g *GameHandler) HandleCheckMove(w http.ResponseWriter, r *http.Request) {
	var move game.Move
	if err := utils.DecodeJSONRequest(r, &move); err != nil {
		g.log.Error("JSON decode error: ", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}
	if err := utils.ValidateRequest(&move); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	err := g.gameUC.CheckMove(move)
	if err != nil && statusFor(err) == http.StatusInternalServerError {
		g.log.Errorf("check move %+v: %v", move, err)
		httpresponse.WriteErrorResponse(w, http.StatusInternalServerError, errs.ErrInternal.Error())
		return
	}

	resp := game.CheckResponse{Legal: err == nil}
	if err != nil {
		resp.Reason = err.Error()
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandlePlayMove(w http.ResponseWriter, r *http.Request) {
	var move game.Move
	if err := utils.DecodeJSONRequest(r, &move); err != nil {
		g.log.Error("JSON decode error: ", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}
	if err := utils.ValidateRequest(&move); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := g.gameUC.PlayMove(r.Context(), move)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			g.log.Errorf("play move %+v: %v", move, err)
			httpresponse.WriteErrorResponse(w, status, errs.ErrInternal.Error())
			return
		}
		g.log.Infof("rejected move %+v: %v", move, err)
		httpresponse.WriteErrorResponse(w, status, err.Error())
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, result)
}

func (g *GameHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	pos := g.gameUC.Reset(r.Context())
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, pos)
}

// HandleWatch streams the position to a websocket client: once on connect and
// again after every applied move or reset.
func (g *GameHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("upgrade error: ", err)
		return
	}

	// send and join under the board lock so no update falls in between
	var sendErr error
	g.gameUC.View(func(pos game.Position) {
		if sendErr = g.hub.send(conn, pos); sendErr == nil {
			g.hub.add(conn)
		}
	})
	if sendErr != nil {
		g.log.Warnf("initial position write failed: %v", sendErr)
		conn.Close()
		return
	}
	defer g.hub.remove(conn)
	g.log.Infof("watcher %s connected, %d watching", conn.RemoteAddr(), g.hub.count())

	// Watchers only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
