package game

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"goban/internal/domain/game"
	repo "goban/internal/repository"
	gameuc "goban/internal/usecase/game"
)

type envelope[T any] struct {
	Status int `json:"Status"`
	Body   T   `json:"Body"`
}

func newTestServer(t *testing.T, size int) *httptest.Server {
	t.Helper()
	log := zap.NewNop().Sugar()
	uc, err := gameuc.NewGameUseCase("test-board", size, repo.NewMemoryPositionStore(), repo.NewMemoryMoveArchive(), log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := chi.NewRouter()
	NewGameHandler(log, uc).Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env.Body
}

func TestHandlePlayMove_AppliesAndRejects(t *testing.T) {
	srv := newTestServer(t, 9)

	resp := postJSON(t, srv.URL+"/board/play", `{"color":"b","x":2,"y":3}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	res := decode[game.MoveResult](t, resp)
	if res.Number != 1 || res.Position.Rows[3][2] != 'x' {
		t.Fatalf("unexpected result %+v", res)
	}

	cases := []struct {
		body string
		want int
	}{
		{`{"color":"b","x":4,"y":4}`, http.StatusConflict},
		{`{"color":"w","x":2,"y":3}`, http.StatusBadRequest},
		{`{"color":"w","x":9,"y":0}`, http.StatusBadRequest},
		{`{"color":"purple","x":0,"y":0}`, http.StatusBadRequest},
		{`{"color":"w","x":0,"y":0,"extra":1}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
		{`{"x":0,"y":0}`, http.StatusBadRequest},
		{`{"color":"w","x":-1,"y":0}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp := postJSON(t, srv.URL+"/board/play", tc.body)
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.want, resp.StatusCode)
		}
	}
}

func TestHandleCheckMove(t *testing.T) {
	srv := newTestServer(t, 9)

	check := decode[game.CheckResponse](t, postJSON(t, srv.URL+"/board/check", `{"color":"b","x":0,"y":0}`))
	if !check.Legal {
		t.Fatalf("expected legal move, got %+v", check)
	}
	check = decode[game.CheckResponse](t, postJSON(t, srv.URL+"/board/check", `{"color":"w","x":0,"y":0}`))
	if check.Legal || !strings.Contains(check.Reason, "turn") {
		t.Fatalf("expected wrong-turn rejection, got %+v", check)
	}
}

func TestHandleGetBoardTextAndChain(t *testing.T) {
	srv := newTestServer(t, 3)
	postJSON(t, srv.URL+"/board/play", `{"color":"b","x":0,"y":0}`)
	postJSON(t, srv.URL+"/board/play", `{"color":"w","x":2,"y":2}`)

	resp, err := http.Get(srv.URL + "/board/text")
	if err != nil {
		t.Fatalf("GET text: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "x..\n...\n..o\n" {
		t.Fatalf("unexpected board text %q", body)
	}

	resp, err = http.Get(srv.URL + "/board/chain?x=0&y=0")
	if err != nil {
		t.Fatalf("GET chain: %v", err)
	}
	defer resp.Body.Close()
	info := decode[game.ChainInfo](t, resp)
	if info.Color != "black" || len(info.Stones) != 1 || len(info.Liberties) != 2 {
		t.Fatalf("unexpected chain %+v", info)
	}

	resp, err = http.Get(srv.URL + "/board/chain?x=a")
	if err != nil {
		t.Fatalf("GET chain: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/board/moves")
	if err != nil {
		t.Fatalf("GET moves: %v", err)
	}
	defer resp.Body.Close()
	if moves := decode[[]game.MoveRecord](t, resp); len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
}

func TestHandleWatch_StreamsPositions(t *testing.T) {
	srv := newTestServer(t, 9)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/board/watch"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var pos game.Position
	if err := conn.ReadJSON(&pos); err != nil {
		t.Fatalf("read initial position: %v", err)
	}
	if pos.MoveNumber != 0 || pos.Size != 9 {
		t.Fatalf("unexpected initial position %+v", pos)
	}

	postJSON(t, srv.URL+"/board/play", `{"color":"b","x":4,"y":4}`)
	if err := conn.ReadJSON(&pos); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if pos.MoveNumber != 1 || pos.Next != "white" {
		t.Fatalf("unexpected update %+v", pos)
	}

	postJSON(t, srv.URL+"/board/reset", ``)
	if err := conn.ReadJSON(&pos); err != nil {
		t.Fatalf("read reset: %v", err)
	}
	if pos.MoveNumber != 0 || pos.Next != "black" {
		t.Fatalf("unexpected reset %+v", pos)
	}
}

func TestHandleWatch_OrderedUnderConcurrentPlays(t *testing.T) {
	srv := newTestServer(t, 9)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/board/watch"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	var pos game.Position
	if err := conn.ReadJSON(&pos); err != nil {
		t.Fatalf("read initial position: %v", err)
	}

	const perColor = 3
	var wg sync.WaitGroup
	for _, color := range []string{"b", "w"} {
		wg.Add(1)
		go func(color string, y int) {
			defer wg.Done()
			for x := 0; x < perColor; {
				body := fmt.Sprintf(`{"color":%q,"x":%d,"y":%d}`, color, x, y)
				resp, err := http.Post(srv.URL+"/board/play", "application/json", strings.NewReader(body))
				if err != nil {
					t.Errorf("POST play: %v", err)
					return
				}
				resp.Body.Close()
				switch resp.StatusCode {
				case http.StatusOK:
					x++
				case http.StatusConflict:
				default:
					t.Errorf("%s: unexpected status %d", body, resp.StatusCode)
					return
				}
			}
		}(color, map[string]int{"b": 0, "w": 8}[color])
	}

	for want := 1; want <= 2*perColor; want++ {
		if err := conn.ReadJSON(&pos); err != nil {
			t.Fatalf("read update %d: %v", want, err)
		}
		if pos.MoveNumber != want {
			t.Fatalf("expected move %d, got %d", want, pos.MoveNumber)
		}
	}
	wg.Wait()
}
