package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
)

func decodeGamePayload(msg *Message) (*gamePayload, error) {
	var payload gamePayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("%w: %w", errInvalidPayload, err)
		}
	}

	if payload.ID == "" {
		return nil, errGameIDRequired
	}

	return &payload, nil
}

func (that *Server) handleNewGame(ctx context.Context, c *client, _ *Message) (any, error) {
	game, err := that.games.CreateGame(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.watch(c, game.ID)

	return game, nil
}

func (that *Server) handleGetGame(ctx context.Context, c *client, msg *Message) (any, error) {
	payload, err := decodeGamePayload(msg)
	if err != nil {
		return nil, err
	}

	game, err := that.games.GetGame(ctx, payload.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	that.watch(c, game.ID)

	return game, nil
}

func (that *Server) handleListGames(ctx context.Context, _ *client, _ *Message) (any, error) {
	games, err := that.games.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

func (that *Server) handleMove(ctx context.Context, c *client, msg *Message) (any, error) {
	payload, err := decodeGamePayload(msg)
	if err != nil {
		return nil, err
	}

	position, err := tictactoe.ParsePosition(payload.Position)
	if err != nil {
		return nil, err
	}

	game, err := that.games.MakeTurn(ctx, payload.ID, position)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	that.watch(c, game.ID)
	that.broadcast(c, game)

	return game, nil
}

func (that *Server) handleOpponentMove(ctx context.Context, c *client, msg *Message) (any, error) {
	payload, err := decodeGamePayload(msg)
	if err != nil {
		return nil, err
	}

	game, err := that.games.MakeOpponentTurn(ctx, payload.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to make opponent turn: %w", err)
	}

	that.watch(c, game.ID)
	that.broadcast(c, game)

	return game, nil
}

func (that *Server) handleStats(ctx context.Context, _ *client, _ *Message) (any, error) {
	stats, err := that.games.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}
