package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const (
	gameKeyPrefix = "game:"
	gameIndexKey  = "games"

	maxUpdateRetries = 16
)

var ErrConcurrentUpdate = errors.New("game was modified concurrently")

// UpdateFunc derives the next state from the stored one. Returning an error aborts the update.
type UpdateFunc func(game entity.GameState) (entity.GameState, error)

// GameRepository holds live games keyed by id. Update is the only way to read, validate
// and write a game as one atomic step.
type GameRepository interface {
	Create(ctx context.Context) (entity.GameState, error)
	GetByID(ctx context.Context, id string) (entity.GameState, error)
	Replace(ctx context.Context, id string, game entity.GameState) error
	Update(ctx context.Context, id string, fn UpdateFunc) (entity.GameState, error)
	List(ctx context.Context) ([]entity.GameState, error)
}

type redisGame struct {
	client *redis.Client
}

func NewRedisGameRepository(client *redis.Client) GameRepository {
	return &redisGame{
		client: client,
	}
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func gameKey(id string) string {
	return gameKeyPrefix + id
}

func (that *redisGame) Create(ctx context.Context) (entity.GameState, error) {
	game := entity.NewGame(uuid.NewString())

	gameJSON, err := json.Marshal(game)
	if err != nil {
		return entity.GameState{}, fmt.Errorf("could not marshal game: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(game.ID), gameJSON, 0)
		pipe.RPush(ctx, gameIndexKey, game.ID)
		return nil
	})
	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to set game: %w", err)
	}

	return game, nil
}

func (that *redisGame) GetByID(ctx context.Context, id string) (entity.GameState, error) {
	return that.get(ctx, that.client, id)
}

func (that *redisGame) get(ctx context.Context, getter stringGetter, id string) (entity.GameState, error) {
	response, err := getter.Get(ctx, gameKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return entity.GameState{}, fmt.Errorf("%w: %s", apperror.ErrNotFound, id)
	}

	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.GameState
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return entity.GameState{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return existingGame, nil
}

func (that *redisGame) Replace(ctx context.Context, id string, game entity.GameState) error {
	_, err := that.Update(ctx, id, func(entity.GameState) (entity.GameState, error) {
		return game, nil
	})

	return err
}

// Update - optimistic transaction: the write is discarded and retried if the key
// changes between WATCH and EXEC.
func (that *redisGame) Update(ctx context.Context, id string, fn UpdateFunc) (entity.GameState, error) {
	key := gameKey(id)

	var updated entity.GameState
	txf := func(tx *redis.Tx) error {
		current, err := that.get(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		next.ID = id

		gameJSON, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = next

		return nil
	}

	for range maxUpdateRetries {
		err := that.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return entity.GameState{}, err
		}

		return updated, nil
	}

	return entity.GameState{}, fmt.Errorf("%w: %s", ErrConcurrentUpdate, id)
}

func (that *redisGame) List(ctx context.Context) ([]entity.GameState, error) {
	ids, err := that.client.LRange(ctx, gameIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list game ids: %w", err)
	}

	games := make([]entity.GameState, 0, len(ids))
	if len(ids) == 0 {
		return games, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(id)
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var game entity.GameState
		if err = json.Unmarshal([]byte(raw), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game: %w", err)
		}

		games = append(games, game)
	}

	return games, nil
}
