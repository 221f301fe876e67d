// Package reflection stores journal entries and reads them back as a
// month calendar.
package reflection

import (
	"context"
	"strings"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/apperr"
	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"github.com/MrSnakeDoc/fellowship/internal/logger"
)

type Repository interface {
	Create(ctx context.Context, r *domain.Reflection) error
	Between(ctx context.Context, userID string, from, to time.Time) ([]domain.Reflection, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{repo: repo, now: time.Now, log: log.Named("reflections")}
}

func (s *Service) Create(ctx context.Context, in domain.CreateReflectionInput) (*domain.Reflection, error) {
	text := strings.TrimSpace(in.Text())
	if text == "" {
		return nil, apperr.ErrValidation
	}

	r := &domain.Reflection{
		UserID:          strings.TrimSpace(in.UserID),
		ReflectionText:  text,
		Mood:            in.Mood,
		Thought:         in.Thought,
		SelectedFeeling: in.SelectedFeeling,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, apperr.Wrap(err, "Failed to save reflection.")
	}
	return r, nil
}

type CalendarMeta struct {
	Month            int `json:"month"`
	Year             int `json:"year"`
	TotalReflections int `json:"totalReflections"`
	UniqueDays       int `json:"uniqueDays"`
}

type Calendar struct {
	// Days maps YYYY-MM-DD (UTC) to the latest reflection of that day.
	Days map[string]domain.Reflection
	Meta CalendarMeta
}

// Calendar returns the user's reflections of one month, keeping the most
// recent entry per day. A zero month or year means the current one; the
// month is clamped to 1..12.
func (s *Service) Calendar(ctx context.Context, userID string, month, year int) (*Calendar, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("User ID is required")
	}

	now := s.now().UTC()
	if year <= 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	month = min(max(month, 1), 12)

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	items, err := s.repo.Between(ctx, userID, from, to)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch reflections")
	}

	days := make(map[string]domain.Reflection, len(items))
	for _, r := range items {
		key := domain.DayKey(r.CreatedAt)
		if cur, ok := days[key]; !ok || r.CreatedAt.After(cur.CreatedAt) {
			days[key] = r
		}
	}

	return &Calendar{
		Days: days,
		Meta: CalendarMeta{
			Month:            month,
			Year:             year,
			TotalReflections: len(items),
			UniqueDays:       len(days),
		},
	}, nil
}
