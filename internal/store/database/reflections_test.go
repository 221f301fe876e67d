package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"github.com/MrSnakeDoc/fellowship/internal/store/database"
	"github.com/MrSnakeDoc/fellowship/internal/store/database/testutil"
)

func TestReflectionsBetween(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	repo := database.NewReflectionRepository(db)
	ctx := context.Background()

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	lastDay := time.Date(2025, 2, 28, 23, 59, 0, 0, time.UTC)
	// one before, the first instant, the last day, and the first instant of March
	entries := []time.Time{from.Add(-time.Second), from, lastDay, to}
	for _, at := range entries {
		require.NoError(t, repo.Create(ctx, &domain.Reflection{UserID: "u1", ReflectionText: "x", CreatedAt: at}))
	}
	require.NoError(t, repo.Create(ctx, &domain.Reflection{UserID: "u2", ReflectionText: "x", CreatedAt: from}))

	got, err := repo.Between(ctx, "u1", from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
	require.NotEmpty(t, got[0].ID)
}
