package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
)

type gameRepo interface {
	Create(ctx context.Context) (entity.GameState, error)
	GetByID(ctx context.Context, id string) (entity.GameState, error)
	Update(ctx context.Context, id string, fn repository.UpdateFunc) (entity.GameState, error)
	List(ctx context.Context) ([]entity.GameState, error)
}

type botService interface {
	SelectMove(game entity.GameState) (int, error)
}

type recorderService interface {
	Record(ctx context.Context, winner *entity.Player, moves int) (*entity.GameRecord, error)
	List(ctx context.Context) ([]*entity.GameRecord, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

// GameManager - serves the request layer: it fetches games, runs them through the
// rules engine inside an atomic repository update and logs finished games.
type GameManager struct {
	logger *slog.Logger

	gameRepo gameRepo
	bot      botService
	recorder recorderService
}

// NewGameManager - a nil bot turns the computer opponent off.
func NewGameManager(logger *slog.Logger, gameRepo gameRepo, bot botService, recorder recorderService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		bot:      bot,
		recorder: recorder,
	}
}

func newView(game entity.GameState) *GameView {
	return &GameView{
		GameState: game,
		Outcome:   tictactoe.GetOutcome(game),
	}
}

func (that *GameManager) CreateGame(ctx context.Context) (*GameView, error) {
	game, err := that.gameRepo.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Debug("game created", "gameID", game.ID)

	return newView(game), nil
}

func (that *GameManager) ListGames(ctx context.Context) ([]*GameView, error) {
	games, err := that.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	views := make([]*GameView, 0, len(games))
	for _, game := range games {
		views = append(views, newView(game))
	}

	return views, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*GameView, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return newView(game), nil
}

// MakeTurn applies a move for whichever side is to play.
func (that *GameManager) MakeTurn(ctx context.Context, id string, position int) (*GameView, error) {
	game, err := that.gameRepo.Update(ctx, id, func(current entity.GameState) (entity.GameState, error) {
		return tictactoe.ApplyMove(current, position)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	return that.afterMove(ctx, game), nil
}

// MakeOpponentTurn lets the computer choose and play the move for the side to play.
// Selection and application happen inside the same atomic update.
func (that *GameManager) MakeOpponentTurn(ctx context.Context, id string) (*GameView, error) {
	if that.bot == nil {
		return nil, apperror.ErrOpponentDisabled
	}

	game, err := that.gameRepo.Update(ctx, id, func(current entity.GameState) (entity.GameState, error) {
		position, err := that.bot.SelectMove(current)
		if err != nil {
			return entity.GameState{}, fmt.Errorf("bot failed to select move: %w", err)
		}

		return tictactoe.ApplyMove(current, position)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make opponent turn: %w", err)
	}

	return that.afterMove(ctx, game), nil
}

// afterMove - records the game once it reaches a terminal outcome. A recording failure
// is logged; the move itself has already been stored.
func (that *GameManager) afterMove(ctx context.Context, game entity.GameState) *GameView {
	view := newView(game)
	if !view.Outcome.IsFinished() {
		return view
	}

	log := that.logger.With("method", "afterMove", "gameID", game.ID)

	moves := tictactoe.MoveCount(game)
	if _, err := that.recorder.Record(ctx, view.Outcome.WinnerRef(), moves); err != nil {
		log.Error("failed to record finished game", "error", err)
		return view
	}

	log.Info("game finished", "status", view.Outcome.Status, "winner", view.Outcome.Winner, "moves", moves)

	return view
}

func (that *GameManager) RecordGame(ctx context.Context, winner *entity.Player, moves int) (*entity.GameRecord, error) {
	record, err := that.recorder.Record(ctx, winner, moves)
	if err != nil {
		return nil, fmt.Errorf("failed to record game: %w", err)
	}

	return record, nil
}

func (that *GameManager) ListRecords(ctx context.Context) ([]*entity.GameRecord, error) {
	records, err := that.recorder.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return records, nil
}

func (that *GameManager) Stats(ctx context.Context) (*entity.Stats, error) {
	stats, err := that.recorder.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}
