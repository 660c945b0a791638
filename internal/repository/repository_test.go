package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/htmlpage/engine/internal/models"
	"github.com/htmlpage/engine/pkg/database"
	appErr "github.com/htmlpage/engine/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("htmlpage"),
		tcpostgres.WithUsername("htmlpage"),
		tcpostgres.WithPassword("htmlpage"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	db, err := database.OpenPostgres(ctx, dsn, zap.NewNop(), database.Options{Verbose: true, MaxConns: 4})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestRepositories(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	pages := NewHTMLPageRepository(db)
	roles := NewRoleRepository(db)

	t.Run("page round trip", func(t *testing.T) {
		p := models.HTMLPage{Description: "home", HTMLContent: "<p>hi</p>", Status: models.StatusEnabled, Role: models.RoleNone}
		require.NoError(t, pages.Create(ctx, &p))
		require.NotZero(t, p.ID)

		var got models.HTMLPage
		require.NoError(t, pages.GetByID(ctx, p.ID, &got))
		require.Equal(t, "<p>hi</p>", got.HTMLContent)
		require.Equal(t, models.RoleNone, got.Role)
	})

	t.Run("missing page is not_found", func(t *testing.T) {
		var got models.HTMLPage
		err := pages.GetByID(ctx, 999999, &got)
		require.True(t, appErr.IsCode(err, appErr.CodeNotFound), "got %v", err)
	})

	t.Run("role exists", func(t *testing.T) {
		require.NoError(t, roles.Create(ctx, &models.Role{Key: "members", Description: "Members only"}))

		ok, err := roles.Exists(ctx, "members")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = roles.Exists(ctx, "staff")
		require.NoError(t, err)
		require.False(t, ok)

		var r models.Role
		require.NoError(t, roles.GetByID(ctx, "members", &r))
		require.Equal(t, "Members only", r.Description)
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		require.NoError(t, Migrate(db))
	})
}
