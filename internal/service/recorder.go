package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

// RecorderService keeps the log of finished games and derives win/loss/draw counts
// from the point of view of a single tracked mark.
type RecorderService interface {
	Record(ctx context.Context, winner *entity.Player, moves int) (*entity.GameRecord, error)
	List(ctx context.Context) ([]*entity.GameRecord, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type recordRepo interface {
	Append(ctx context.Context, record *entity.GameRecord) error
	List(ctx context.Context) ([]*entity.GameRecord, error)
}

type recorderService struct {
	recordRepo recordRepo
	self       entity.Player
	now        func() time.Time
}

func NewRecorderService(recordRepo recordRepo, self entity.Player) RecorderService {
	return &recorderService{
		recordRepo: recordRepo,
		self:       self,
		now:        time.Now,
	}
}

func (that *recorderService) Record(ctx context.Context, winner *entity.Player, moves int) (*entity.GameRecord, error) {
	if moves < 0 {
		moves = 0
	}

	record := &entity.GameRecord{
		ID:        uuid.NewString(),
		Winner:    winner,
		Moves:     moves,
		Timestamp: that.now().UTC(),
	}

	if err := that.recordRepo.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append game record: %w", err)
	}

	return record, nil
}

func (that *recorderService) List(ctx context.Context) ([]*entity.GameRecord, error) {
	records, err := that.recordRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list game records: %w", err)
	}

	return records, nil
}

func (that *recorderService) Stats(ctx context.Context) (*entity.Stats, error) {
	records, err := that.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &entity.Stats{TotalGames: len(records)}
	for _, record := range records {
		switch {
		case record.Winner == nil:
			stats.Draws++
		case *record.Winner == that.self:
			stats.Wins++
		default:
			stats.Losses++
		}
	}

	if stats.TotalGames > 0 {
		rate := float64(stats.Wins) / float64(stats.TotalGames) * 100
		stats.WinRate = math.Round(rate*100) / 100
	}

	return stats, nil
}
