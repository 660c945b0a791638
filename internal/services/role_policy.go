package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/htmlpage/engine/internal/models"
	"github.com/htmlpage/engine/pkg/logger"
)

// RolePolicy decides whether a page role hides the page from the public endpoint.
type RolePolicy interface {
	IsRoleRestricted(ctx context.Context, role string) bool
}

// RoleLookup reports whether a role is defined.
type RoleLookup interface {
	Exists(ctx context.Context, key string) (bool, error)
}

type rolePolicy struct {
	roles RoleLookup
}

// NewRolePolicy restricts any role other than "none" that exists in roles.
func NewRolePolicy(roles RoleLookup) RolePolicy {
	return &rolePolicy{roles: roles}
}

func (p *rolePolicy) IsRoleRestricted(ctx context.Context, role string) bool {
	if role == "" || role == models.RoleNone {
		return false
	}
	ok, err := p.roles.Exists(ctx, role)
	if err != nil {
		// fail closed
		logger.L().Error("role lookup failed", zap.String("role", role), zap.Error(err))
		return true
	}
	return ok
}
