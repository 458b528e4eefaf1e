package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-core/internal/usecase"
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*usecase.GameView, error)
	ListGames(ctx context.Context) ([]*usecase.GameView, error)
	GetGame(ctx context.Context, id string) (*usecase.GameView, error)
	MakeTurn(ctx context.Context, id string, position int) (*usecase.GameView, error)
	MakeOpponentTurn(ctx context.Context, id string) (*usecase.GameView, error)

	RecordGame(ctx context.Context, winner *entity.Player, moves int) (*entity.GameRecord, error)
	ListRecords(ctx context.Context) ([]*entity.GameRecord, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type moveRequest struct {
	Position json.RawMessage `json:"position"`
}

type recordRequest struct {
	Winner *string `json:"winner"`
	Moves  int     `json:"moves"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type GameHandler struct {
	logger *slog.Logger
	games  gameUseCase
}

func NewGameHandler(logger *slog.Logger, games gameUseCase) *GameHandler {
	return &GameHandler{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

func (that *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, "CreateGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := that.games.ListGames(r.Context())
	if err != nil {
		that.writeError(w, "ListGames", err)
		return
	}

	that.writeJSON(w, http.StatusOK, games)
}

func (that *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "GetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *GameHandler) MakeTurn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// unknown games answer 404 before the body is looked at
	if _, err := that.games.GetGame(r.Context(), id); err != nil {
		that.writeError(w, "MakeTurn", err)
		return
	}

	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	position, err := tictactoe.ParsePosition(req.Position)
	if err != nil {
		that.writeError(w, "MakeTurn", err)
		return
	}

	game, err := that.games.MakeTurn(r.Context(), id, position)
	if err != nil {
		that.writeError(w, "MakeTurn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *GameHandler) MakeOpponentTurn(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.MakeOpponentTurn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "MakeOpponentTurn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *GameHandler) RecordGame(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var winner *entity.Player
	if req.Winner != nil && *req.Winner != "" {
		player, err := entity.ParsePlayer(*req.Winner)
		if err != nil {
			that.writeError(w, "RecordGame", fmt.Errorf("%w: %w", apperror.ErrInvalidWinner, err))
			return
		}
		winner = &player
	}

	record, err := that.games.RecordGame(r.Context(), winner, req.Moves)
	if err != nil {
		that.writeError(w, "RecordGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, record)
}

func (that *GameHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := that.games.ListRecords(r.Context())
	if err != nil {
		that.writeError(w, "ListRecords", err)
		return
	}

	that.writeJSON(w, http.StatusOK, records)
}

func (that *GameHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.games.Stats(r.Context())
	if err != nil {
		that.writeError(w, "Stats", err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

// decodeBody - an empty body decodes to the zero value.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

func (that *GameHandler) writeError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrNoPosition):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperror.ErrNoPosition.Error()})
	case errors.Is(err, apperror.ErrNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.Reason(err)})
	case errors.Is(err, apperror.ErrOpponentDisabled):
		that.writeJSON(w, http.StatusForbidden, errorResponse{Error: apperror.Reason(err)})
	case apperror.IsInvalidMove(err), errors.Is(err, apperror.ErrInvalidWinner):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperror.Reason(err)})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: apperror.Reason(err)})
	}
}

func (that *GameHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
