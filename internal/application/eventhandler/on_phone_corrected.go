package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/presenca-hub/attendance-hub/internal/domain/report"
	"github.com/presenca-hub/attendance-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON PHONE CORRECTED HANDLER
// Daily views embed the denormalized phone number, so a back-fill makes an
// unknown set of cached views stale. The correction is rare and the cache is
// derived data, so the cheapest correct answer is to drop everything.
// ═══════════════════════════════════════════════════════════════════════════

// OnPhoneCorrectedHandler drops all cached report views after a phone back-fill.
type OnPhoneCorrectedHandler struct {
	cache   report.Cache
	logger  *slog.Logger
	timeout time.Duration
}

// NewOnPhoneCorrectedHandler creates the handler.
func NewOnPhoneCorrectedHandler(cache report.Cache, logger *slog.Logger) *OnPhoneCorrectedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnPhoneCorrectedHandler{
		cache:   cache,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

// Handle is the shared.EventHandler for attendance.phone_corrected events.
func (h *OnPhoneCorrectedHandler) Handle(event shared.Event) error {
	if event.EventType() != shared.EventPhoneCorrected || h.cache == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.cache.InvalidateAll(ctx); err != nil {
		return err
	}
	h.logger.Debug("report cache flushed after phone correction",
		"student_id", event.AggregateID())
	return nil
}
