package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GintGld/chat-envboot/internal/lib/logger/sl"
	"github.com/GintGld/chat-envboot/internal/models"
	"github.com/GintGld/chat-envboot/internal/service"
	"github.com/GintGld/chat-envboot/internal/storage"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type History struct {
	log        *slog.Logger
	runStorage RunStorage
}

type RunStorage interface {
	Run(ctx context.Context, id int64) (models.Report, error)
	Runs(ctx context.Context, limit int) ([]models.Report, error)
}

// New returns history service. Nil storage disables it.
func New(
	log *slog.Logger,
	runStorage RunStorage,
) *History {
	return &History{
		log:        log,
		runStorage: runStorage,
	}
}

// Run returns bootstrap report by id.
func (h *History) Run(ctx context.Context, id int64) (models.Report, error) {
	const op = "history.Run"

	log := h.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	if h.runStorage == nil {
		return models.Report{}, service.ErrHistoryDisabled
	}

	report, err := h.runStorage.Run(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			log.Debug("run not found")
			return models.Report{}, service.ErrRunNotFound
		}
		if errors.Is(err, storage.ErrContextCancelled) {
			log.Error("runStorage.Run timeout exceeded")
			return models.Report{}, service.ErrTimeout
		}
		log.Error("failed to get run", sl.Err(err))
		return models.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	return report, nil
}

// Runs returns latest reports. Non-positive limit means default,
// too big limit is truncated.
func (h *History) Runs(ctx context.Context, limit int) ([]models.Report, error) {
	const op = "history.Runs"

	log := h.log.With(
		slog.String("op", op),
	)

	if h.runStorage == nil {
		return []models.Report{}, service.ErrHistoryDisabled
	}

	switch {
	case limit <= 0:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}

	res, err := h.runStorage.Runs(ctx, limit)
	if err != nil {
		if errors.Is(err, storage.ErrContextCancelled) {
			log.Error("runStorage.Runs timeout exceeded")
			return []models.Report{}, service.ErrTimeout
		}
		log.Error("failed to get runs", slog.Int("limit", limit), sl.Err(err))
		return []models.Report{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}
