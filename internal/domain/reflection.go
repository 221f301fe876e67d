package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reflection is a free-text journal entry, optionally tagged with the mood
// and thought that prompted it.
type Reflection struct {
	ID              string    `gorm:"primaryKey;size:36" json:"_id"`
	UserID          string    `gorm:"size:128;index:idx_reflections_user_created,priority:1" json:"userId"`
	ReflectionText  string    `gorm:"type:text;not null" json:"reflectionText"`
	Mood            string    `gorm:"size:64" json:"mood"`
	Thought         string    `gorm:"type:text" json:"thought"`
	SelectedFeeling string    `gorm:"size:128" json:"selectedFeeling"`
	CreatedAt       time.Time `gorm:"index:idx_reflections_user_created,priority:2" json:"createdAt"`
}

func (Reflection) TableName() string { return "reflections" }

func (r *Reflection) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// CreateReflectionInput accepts both "reflection" and "reflectionText" for the body.
type CreateReflectionInput struct {
	Reflection      string `json:"reflection"`
	ReflectionText  string `json:"reflectionText"`
	SelectedFeeling string `json:"selectedFeeling"`
	Mood            string `json:"mood"`
	Thought         string `json:"thought"`
	UserID          string `json:"userId"`
}

// Text returns the reflection body, whichever field carried it.
func (in CreateReflectionInput) Text() string {
	if in.ReflectionText != "" {
		return in.ReflectionText
	}
	return in.Reflection
}

// DayKey is the calendar bucket of a timestamp (UTC, YYYY-MM-DD).
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
