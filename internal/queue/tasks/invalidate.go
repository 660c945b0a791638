package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	appErr "github.com/htmlpage/engine/pkg/errors"
	"github.com/htmlpage/engine/pkg/logger"
)

// TypeInvalidate evicts one page from the page cache.
const TypeInvalidate = "htmlpage:invalidate"

// InvalidatePayload is the task payload for TypeInvalidate.
type InvalidatePayload struct {
	PageID int `json:"page_id"`
}

// NewInvalidateTask builds a TypeInvalidate task for page id.
func NewInvalidateTask(id int) (*asynq.Task, error) {
	b, err := json.Marshal(InvalidatePayload{PageID: id})
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "marshal invalidate payload failed")
	}
	return asynq.NewTask(TypeInvalidate, b), nil
}

// Invalidator evicts cached pages.
type Invalidator interface {
	Invalidate(ctx context.Context, id int) error
}

// InvalidateTaskHandler handles TypeInvalidate tasks.
type InvalidateTaskHandler struct {
	cache Invalidator
}

func NewInvalidateTaskHandler(cache Invalidator) *InvalidateTaskHandler {
	return &InvalidateTaskHandler{cache: cache}
}

func (h *InvalidateTaskHandler) HandleInvalidate(ctx context.Context, t *asynq.Task) error {
	var p InvalidatePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid invalidate task payload", zap.Error(err))
		// retrying cannot fix a bad payload
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.cache.Invalidate(ctx, p.PageID); err != nil {
		logger.L().Error("page invalidation failed", zap.Int("page_id", p.PageID), zap.Error(err))
		return err
	}
	logger.L().Info("page invalidated", zap.Int("page_id", p.PageID))
	return nil
}

// Register mounts the handlers on mux.
func (h *InvalidateTaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeInvalidate, h.HandleInvalidate)
}
