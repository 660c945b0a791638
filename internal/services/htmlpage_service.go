package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/htmlpage/engine/internal/cache"
	"github.com/htmlpage/engine/internal/models"
	appErr "github.com/htmlpage/engine/pkg/errors"
	"github.com/htmlpage/engine/pkg/logger"
)

// ErrMsgResourceNotFound is returned when neither requested page is visible.
const ErrMsgResourceNotFound = "Resource not found"

// HTMLPageService resolves the page served by the REST endpoint.
type HTMLPageService interface {
	// Resolve returns the page for id, or the page for idDefault when id is absent or
	// restricted. The error carries CodeNotFound when neither is visible.
	Resolve(ctx context.Context, id, idDefault int) (*models.HTMLPage, error)
}

type htmlPageService struct {
	pages cache.PageCache
	roles RolePolicy
}

func NewHTMLPageService(pages cache.PageCache, roles RolePolicy) HTMLPageService {
	return &htmlPageService{pages: pages, roles: roles}
}

var _ HTMLPageService = (*htmlPageService)(nil)

func (s *htmlPageService) Resolve(ctx context.Context, id, idDefault int) (*models.HTMLPage, error) {
	if p := s.visible(ctx, id); p != nil {
		return p, nil
	}
	if p := s.visible(ctx, idDefault); p != nil {
		return p, nil
	}

	logger.L().Error(ErrMsgResourceNotFound, zap.Int("id", id), zap.Int("id_default", idDefault))
	return nil, appErr.New(appErr.CodeNotFound, ErrMsgResourceNotFound).
		WithMeta("id", id).
		WithMeta("id_default", idDefault)
}

// visible returns the page for id unless it is missing, unreadable or restricted.
func (s *htmlPageService) visible(ctx context.Context, id int) *models.HTMLPage {
	p, err := s.pages.GetPageByID(ctx, id)
	if err != nil {
		logger.L().Warn("page lookup failed", zap.Int("id", id), zap.Error(err))
		return nil
	}
	if p == nil || s.roles.IsRoleRestricted(ctx, p.Role) {
		return nil
	}
	return p
}
