package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

type memoryGameEntry struct {
	mu   sync.Mutex
	game entity.GameState
}

// memoryGame keeps games in process memory. The map lock guards membership only;
// each entry has its own lock so moves on different games never wait on each other.
type memoryGame struct {
	mu    sync.RWMutex
	games map[string]*memoryGameEntry
	order []string
}

func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]*memoryGameEntry),
	}
}

func (that *memoryGame) Create(_ context.Context) (entity.GameState, error) {
	game := entity.NewGame(uuid.NewString())

	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = &memoryGameEntry{game: game}
	that.order = append(that.order, game.ID)

	return game, nil
}

func (that *memoryGame) entry(id string) (*memoryGameEntry, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	entry, ok := that.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrNotFound, id)
	}

	return entry, nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (entity.GameState, error) {
	entry, err := that.entry(id)
	if err != nil {
		return entity.GameState{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return entry.game, nil
}

func (that *memoryGame) Replace(ctx context.Context, id string, game entity.GameState) error {
	_, err := that.Update(ctx, id, func(entity.GameState) (entity.GameState, error) {
		return game, nil
	})

	return err
}

func (that *memoryGame) Update(_ context.Context, id string, fn UpdateFunc) (entity.GameState, error) {
	entry, err := that.entry(id)
	if err != nil {
		return entity.GameState{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	next, err := fn(entry.game)
	if err != nil {
		return entity.GameState{}, err
	}
	next.ID = id

	entry.game = next

	return next, nil
}

func (that *memoryGame) List(_ context.Context) ([]entity.GameState, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	games := make([]entity.GameState, 0, len(that.order))
	for _, id := range that.order {
		entry := that.games[id]

		entry.mu.Lock()
		games = append(games, entry.game)
		entry.mu.Unlock()
	}

	return games, nil
}
