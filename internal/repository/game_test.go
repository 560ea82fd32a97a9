package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"goban/internal/domain/game"
	"goban/internal/domain/goban"
	errs "goban/internal/errors"
)

func newRedisStore(t *testing.T) (*RedisPositionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisPositionStore(zap.NewNop().Sugar(), client), mr
}

func samplePosition() game.Position {
	ko := goban.Pt(1, 1)
	return game.Position{
		BoardID:       "board-1",
		Size:          3,
		Rows:          []string{".x.", "x.x", ".xo"},
		Ko:            &ko,
		Next:          "white",
		MoveNumber:    7,
		BlackCaptures: 1,
		UpdatedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRedisPositionStore_SaveAndLoad(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()
	want := samplePosition()

	if err := store.SavePosition(ctx, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists("goban:position:board-1") {
		t.Fatalf("expected position under its board key")
	}

	got, err := store.LoadPosition(ctx, "board-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MoveNumber != 7 || got.Next != "white" || got.Ko == nil || *got.Ko != goban.Pt(1, 1) {
		t.Fatalf("unexpected position %+v", got)
	}
	if len(got.Rows) != 3 || got.Rows[2] != ".xo" {
		t.Fatalf("unexpected rows %v", got.Rows)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("expected %v, got %v", want.UpdatedAt, got.UpdatedAt)
	}
}

func TestRedisPositionStore_Missing(t *testing.T) {
	store, _ := newRedisStore(t)
	if _, err := store.LoadPosition(context.Background(), "nope"); !errors.Is(err, errs.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
}

func TestRedisPositionStore_Corrupt(t *testing.T) {
	store, mr := newRedisStore(t)
	if err := mr.Set("goban:position:bad", "{not json"); err != nil {
		t.Fatalf("seed redis: %v", err)
	}
	if _, err := store.LoadPosition(context.Background(), "bad"); !errors.Is(err, errs.ErrBadPosition) {
		t.Fatalf("expected ErrBadPosition, got %v", err)
	}
}

func TestRedisPositionStore_Unreachable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()
	if err := store.SavePosition(context.Background(), samplePosition()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestMemoryPositionStore(t *testing.T) {
	store := NewMemoryPositionStore()
	ctx := context.Background()
	if _, err := store.LoadPosition(ctx, "board-1"); !errors.Is(err, errs.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}

	pos := samplePosition()
	if err := store.SavePosition(ctx, pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos.Rows[0] = "ooo"

	got, err := store.LoadPosition(ctx, "board-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Rows[0] != ".x." {
		t.Fatalf("stored rows alias the caller's slice")
	}
}

func TestMemoryMoveArchive_SortsByNumber(t *testing.T) {
	archive := NewMemoryMoveArchive()
	ctx := context.Background()
	for _, n := range []int{2, 1, 3} {
		_ = archive.ArchiveMove(ctx, game.MoveRecord{ID: "m", BoardID: "board-1", GameID: "g1", Number: n})
	}
	_ = archive.ArchiveMove(ctx, game.MoveRecord{ID: "other", BoardID: "board-2", GameID: "g1", Number: 1})

	moves, err := archive.MovesOf(ctx, "board-1", "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(moves) != 3 || moves[0].Number != 1 || moves[2].Number != 3 {
		t.Fatalf("unexpected moves %+v", moves)
	}
}

func TestMemoryMoveArchive_SeparatesGames(t *testing.T) {
	archive := NewMemoryMoveArchive()
	ctx := context.Background()
	_ = archive.ArchiveMove(ctx, game.MoveRecord{ID: "a1", BoardID: "board-1", GameID: "old", Number: 1})
	_ = archive.ArchiveMove(ctx, game.MoveRecord{ID: "a2", BoardID: "board-1", GameID: "old", Number: 2})
	_ = archive.ArchiveMove(ctx, game.MoveRecord{ID: "b1", BoardID: "board-1", GameID: "new", Number: 1})

	moves, err := archive.MovesOf(ctx, "board-1", "new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(moves) != 1 || moves[0].ID != "b1" {
		t.Fatalf("expected only the new game's move, got %+v", moves)
	}
	if moves, _ := archive.MovesOf(ctx, "board-1", "missing"); len(moves) != 0 {
		t.Fatalf("expected no moves for an unknown game, got %+v", moves)
	}
}
