package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/htmlpage/engine/internal/api/middleware"
	"github.com/htmlpage/engine/internal/api/types"
	"github.com/htmlpage/engine/internal/queue/tasks"
	appErr "github.com/htmlpage/engine/pkg/errors"
	"github.com/htmlpage/engine/pkg/logger"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AdminHandler lets the CMS signal that a page changed.
type AdminHandler struct {
	queue Enqueuer
}

func NewAdminHandler(queue Enqueuer) *AdminHandler {
	return &AdminHandler{queue: queue}
}

// InvalidatePage enqueues the eviction of a cached page.
func (h *AdminHandler) InvalidatePage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, appErr.New(appErr.CodeInvalid, "page id must be an integer"))
		return
	}

	task, err := tasks.NewInvalidateTask(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	info, err := h.queue.EnqueueContext(r.Context(), task, asynq.MaxRetry(5))
	if err != nil {
		logger.L().Error("enqueue invalidate task failed", zap.Int("page_id", id), zap.Error(err))
		writeError(w, r, appErr.Wrap(err, appErr.CodeUnavailable, "enqueue invalidate task failed"))
		return
	}

	logger.L().Info("page invalidation enqueued",
		zap.Int("page_id", id),
		zap.String("task_id", info.ID),
		zap.String("user_id", middleware.GetUserID(r.Context())),
	)
	writeJSON(w, http.StatusAccepted, types.APIResponse{
		Success: true,
		Data:    map[string]any{"page_id": id, "task_id": info.ID},
	})
}
