package reflection

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/fellowship/internal/apperr"
	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/MrSnakeDoc/fellowship/internal/store/database"
	"github.com/MrSnakeDoc/fellowship/internal/store/database/testutil"
)

func newTestService(t *testing.T, now time.Time) (*Service, *database.ReflectionRepository) {
	t.Helper()
	repo := database.NewReflectionRepository(testutil.MustOpenTestDB(t))
	svc := NewService(repo, logger.Nop())
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestCreateRequiresText(t *testing.T) {
	svc, _ := newTestService(t, time.Now())

	_, err := svc.Create(context.Background(), domain.CreateReflectionInput{UserID: "u1", Mood: "Sad"})
	var appErr *apperr.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, http.StatusBadRequest, appErr.StatusCode)

	r, err := svc.Create(context.Background(), domain.CreateReflectionInput{UserID: "u1", Reflection: "grateful today", Mood: "Hopeful"})
	require.NoError(t, err)
	require.NotEmpty(t, r.ID)
	require.Equal(t, "grateful today", r.ReflectionText)
}

func TestCalendarKeepsLatestPerDay(t *testing.T) {
	now := time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, now)
	ctx := context.Background()

	add := func(text string, at time.Time) {
		require.NoError(t, repo.Create(ctx, &domain.Reflection{UserID: "u1", ReflectionText: text, CreatedAt: at}))
	}
	add("morning", time.Date(2025, 4, 3, 8, 0, 0, 0, time.UTC))
	add("evening", time.Date(2025, 4, 3, 21, 0, 0, 0, time.UTC))
	add("last day", time.Date(2025, 4, 30, 23, 0, 0, 0, time.UTC))
	add("march", time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC))

	cal, err := svc.Calendar(ctx, "u1", 0, 0)
	require.NoError(t, err)
	require.Equal(t, CalendarMeta{Month: 4, Year: 2025, TotalReflections: 3, UniqueDays: 2}, cal.Meta)
	require.Equal(t, "evening", cal.Days["2025-04-03"].ReflectionText)
	require.Equal(t, "last day", cal.Days["2025-04-30"].ReflectionText)
}

func TestCalendarClampsMonth(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		month, year int
		wantMonth   int
		wantYear    int
	}{
		{month: 13, year: 2024, wantMonth: 12, wantYear: 2024},
		{month: -4, year: 2024, wantMonth: 1, wantYear: 2024},
		{month: 7, year: 0, wantMonth: 7, wantYear: 2025},
	}
	for _, tt := range tests {
		cal, err := svc.Calendar(context.Background(), "u1", tt.month, tt.year)
		require.NoError(t, err)
		require.Equal(t, tt.wantMonth, cal.Meta.Month)
		require.Equal(t, tt.wantYear, cal.Meta.Year)
		require.Empty(t, cal.Days)
	}
}
