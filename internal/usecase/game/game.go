package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goban/internal/domain/game"
	"goban/internal/domain/goban"
	errs "goban/internal/errors"
)

type PositionStore interface {
	SavePosition(ctx context.Context, pos game.Position) error
	// LoadPosition returns errs.ErrBoardNotFound when nothing is stored for boardID.
	LoadPosition(ctx context.Context, boardID string) (game.Position, error)
}

type MoveArchive interface {
	ArchiveMove(ctx context.Context, rec game.MoveRecord) error
	// MovesOf returns the moves of one game on boardID, ordered by number.
	MovesOf(ctx context.Context, boardID, gameID string) ([]game.MoveRecord, error)
}

// GameUseCase referees the single board hosted by this process. It alternates
// turns, black first, and keeps the position store and move archive in step
// with the board.
type GameUseCase struct {
	mu        sync.Mutex
	boardID   string
	gameID    string
	size      int
	board     *goban.Board
	next      goban.Color
	moveNum   int
	prisoners map[goban.Color]int
	updatedAt time.Time

	positions PositionStore
	archive   MoveArchive
	log       *zap.SugaredLogger
	now       func() time.Time
	notify    func(game.Position)
}

func NewGameUseCase(boardID string, size int, positions PositionStore, archive MoveArchive, log *zap.SugaredLogger) (*GameUseCase, error) {
	board, err := goban.NewBoard(size)
	if err != nil {
		return nil, err
	}
	return &GameUseCase{
		boardID:   boardID,
		gameID:    uuid.New().String(),
		size:      size,
		board:     board,
		next:      goban.Black,
		prisoners: make(map[goban.Color]int),
		positions: positions,
		archive:   archive,
		log:       log,
		now:       time.Now,
	}, nil
}

// mustNewBoard is for sizes NewGameUseCase has already accepted.
func mustNewBoard(size int) *goban.Board {
	board, err := goban.NewBoard(size)
	if err != nil {
		panic(err)
	}
	return board
}

// OnPosition registers fn to receive every position produced by a move or a
// reset. fn runs under the board lock, so positions arrive in the order they
// were made; it must not call back into the use case.
func (g *GameUseCase) OnPosition(fn func(game.Position)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notify = fn
}

// View calls fn with the current position under the board lock. No move is
// published between fn seeing the position and fn returning.
func (g *GameUseCase) View(fn func(game.Position)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.positionLocked())
}

func (g *GameUseCase) publishLocked(pos game.Position) {
	if g.notify != nil {
		g.notify(pos)
	}
}

func (g *GameUseCase) BoardID() string {
	return g.boardID
}

// Restore loads the stored position for this board, if there is one.
func (g *GameUseCase) Restore(ctx context.Context) error {
	pos, err := g.positions.LoadPosition(ctx, g.boardID)
	if errors.Is(err, errs.ErrBoardNotFound) {
		g.log.Infof("no stored position for board %s, starting empty %dx%d", g.boardID, g.size, g.size)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load position %s: %w", g.boardID, err)
	}

	if pos.Size != g.size {
		return fmt.Errorf("%w: stored board %s is %dx%d, configured %dx%d",
			errs.ErrBadPosition, g.boardID, pos.Size, pos.Size, g.size, g.size)
	}
	board, err := goban.Restore(pos.Rows, pos.Ko)
	if err != nil {
		return fmt.Errorf("restore board %s: %w", g.boardID, err)
	}
	next, err := goban.ParseColor(pos.Next)
	if err != nil {
		return fmt.Errorf("restore board %s: %w", g.boardID, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.board = board
	if pos.GameID != "" {
		g.gameID = pos.GameID
	}
	g.next = next
	g.moveNum = pos.MoveNumber
	g.prisoners = map[goban.Color]int{
		goban.Black: pos.BlackCaptures,
		goban.White: pos.WhiteCaptures,
	}
	g.updatedAt = pos.UpdatedAt
	g.log.Infof("restored board %s at move %d, %s to play", g.boardID, g.moveNum, g.next)
	return nil
}

// CheckMove reports why move would be rejected, or nil if it is legal now.
func (g *GameUseCase) CheckMove(move game.Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, err := g.checkLocked(move)
	return err
}

func (g *GameUseCase) checkLocked(move game.Move) (goban.Color, error) {
	color, err := goban.ParseColor(move.Color)
	if err != nil {
		return color, err
	}
	if color != g.next {
		return color, fmt.Errorf("%w: %s to play", errs.ErrWrongTurn, g.next)
	}
	return color, g.board.Check(move.Point(), color)
}

// PlayMove applies move if it is legal. A failure to persist is logged but
// does not undo the move; the next successful save catches the store up.
func (g *GameUseCase) PlayMove(ctx context.Context, move game.Move) (game.MoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, err := g.checkLocked(move)
	if err != nil {
		return game.MoveResult{}, err
	}
	out, err := g.board.Play(move.Point(), color)
	if err != nil {
		return game.MoveResult{}, err
	}

	g.moveNum++
	g.next = color.Opponent()
	g.prisoners[color] += len(out.Captured)
	g.updatedAt = g.now()
	pos := g.positionLocked()

	if len(out.Captured) > 0 {
		g.log.Infof("move %d: %s %v captured %d", g.moveNum, color, out.Point, len(out.Captured))
	}

	if err := g.positions.SavePosition(ctx, pos); err != nil {
		g.log.Errorw("failed to save position", "board", g.boardID, "move", g.moveNum, "error", err)
	}
	rec := game.MoveRecord{
		ID:       uuid.New().String(),
		BoardID:  g.boardID,
		GameID:   g.gameID,
		Number:   g.moveNum,
		Color:    color.String(),
		X:        move.X,
		Y:        move.Y,
		Captured: len(out.Captured),
		PlayedAt: g.updatedAt,
	}
	if err := g.archive.ArchiveMove(ctx, rec); err != nil {
		g.log.Errorw("failed to archive move", "board", g.boardID, "move", g.moveNum, "error", err)
	}
	g.publishLocked(pos)

	return game.MoveResult{
		Number:   g.moveNum,
		Move:     game.Move{Color: color.String(), X: move.X, Y: move.Y},
		Captured: out.Captured,
		Ko:       out.Ko,
		Position: pos,
	}, nil
}

func (g *GameUseCase) Position() game.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.positionLocked()
}

func (g *GameUseCase) positionLocked() game.Position {
	pos := game.Position{
		BoardID:       g.boardID,
		GameID:        g.gameID,
		Size:          g.board.Size(),
		Rows:          g.board.Rows(),
		Next:          g.next.String(),
		MoveNumber:    g.moveNum,
		BlackCaptures: g.prisoners[goban.Black],
		WhiteCaptures: g.prisoners[goban.White],
		UpdatedAt:     g.updatedAt,
	}
	if ko, ok := g.board.Ko(); ok {
		pos.Ko = &ko
	}
	return pos
}

// Render returns the text diagram of the board.
func (g *GameUseCase) Render() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.String()
}

func (g *GameUseCase) ChainAt(p goban.Point) game.ChainInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return game.ChainInfo{
		Point:     p,
		Color:     g.board.At(p).String(),
		Stones:    g.board.Chain(p).Sorted(),
		Liberties: g.board.Liberties(p).Sorted(),
		Alive:     g.board.Alive(p),
	}
}

// Moves returns the archived moves of the current game.
func (g *GameUseCase) Moves(ctx context.Context) ([]game.MoveRecord, error) {
	g.mu.Lock()
	gameID := g.gameID
	g.mu.Unlock()
	return g.archive.MovesOf(ctx, g.boardID, gameID)
}

// Reset starts a new game on the board: a fresh game id, an empty board and
// black to move. Earlier games stay in the archive under their own ids.
func (g *GameUseCase) Reset(ctx context.Context) game.Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gameID = uuid.New().String()
	g.board = mustNewBoard(g.size)
	g.next = goban.Black
	g.moveNum = 0
	g.prisoners = make(map[goban.Color]int)
	g.updatedAt = g.now()
	pos := g.positionLocked()

	if err := g.positions.SavePosition(ctx, pos); err != nil {
		g.log.Errorw("failed to save position", "board", g.boardID, "error", err)
	}
	g.log.Infof("board %s reset, game %s", g.boardID, g.gameID)
	g.publishLocked(pos)
	return pos
}
