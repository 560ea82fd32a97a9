package repo

import (
	"context"
	"sort"
	"sync"

	"goban/internal/domain/game"
	errs "goban/internal/errors"
)

// MemoryPositionStore keeps positions in process memory. It is used when no
// redis is configured.
type MemoryPositionStore struct {
	mu        sync.RWMutex
	positions map[string]game.Position
}

func NewMemoryPositionStore() *MemoryPositionStore {
	return &MemoryPositionStore{positions: make(map[string]game.Position)}
}

func (m *MemoryPositionStore) SavePosition(_ context.Context, pos game.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos.Rows = append([]string(nil), pos.Rows...)
	m.positions[pos.BoardID] = pos
	return nil
}

func (m *MemoryPositionStore) LoadPosition(_ context.Context, boardID string) (game.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pos, ok := m.positions[boardID]
	if !ok {
		return game.Position{}, errs.ErrBoardNotFound
	}
	return pos, nil
}

type MemoryMoveArchive struct {
	mu    sync.RWMutex
	moves map[string][]game.MoveRecord // by board id
}

func NewMemoryMoveArchive() *MemoryMoveArchive {
	return &MemoryMoveArchive{moves: make(map[string][]game.MoveRecord)}
}

func (m *MemoryMoveArchive) ArchiveMove(_ context.Context, rec game.MoveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves[rec.BoardID] = append(m.moves[rec.BoardID], rec)
	return nil
}

func (m *MemoryMoveArchive) MovesOf(_ context.Context, boardID, gameID string) ([]game.MoveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	moves := make([]game.MoveRecord, 0)
	for _, rec := range m.moves[boardID] {
		if rec.GameID == gameID {
			moves = append(moves, rec)
		}
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Number < moves[j].Number
	})
	return moves, nil
}
