package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/fellowship/internal/validate"
)

var (
	// ErrMissingFields is returned when a common or variant field is absent.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidType is returned for a type outside BookmarkTypes.
	ErrInvalidType = errors.New("invalid bookmark type")
)

// CreateBookmarkInput is the payload accepted when saving a bookmark.
type CreateBookmarkInput struct {
	UserID        string   `json:"userId" validate:"required"`
	Type          string   `json:"type" validate:"required"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	BibleID       string   `json:"bibleId" validate:"required"`
	BibleName     string   `json:"bibleName"`
	BookID        string   `json:"bookId"`
	BookName      string   `json:"bookName"`
	ChapterID     string   `json:"chapterId"`
	ChapterNumber int      `json:"chapterNumber"`
	VerseID       string   `json:"verseId"`
	VerseNumber   int      `json:"verseNumber"`
	VerseText     string   `json:"verseText"`
	Reference     string   `json:"reference" validate:"required"`
	Note          string   `json:"note"`
	Tags          []string `json:"tags"`
}

// Target is one of BibleTarget, ChapterTarget or VerseTarget.
type Target interface {
	Type() BookmarkType
	// ID is the identifier uniqueness is checked on.
	ID() string
	apply(b *Bookmark)
}

type BibleTarget struct {
	BibleID   string `json:"bibleId" validate:"required"`
	BibleName string `json:"bibleName"`
}

func (t BibleTarget) Type() BookmarkType { return TypeBible }
func (t BibleTarget) ID() string         { return t.BibleID }
func (t BibleTarget) apply(b *Bookmark) {
	b.BibleID, b.BibleName = t.BibleID, t.BibleName
}

type ChapterTarget struct {
	BibleID       string `json:"bibleId" validate:"required"`
	BibleName     string `json:"bibleName"`
	BookID        string `json:"bookId"`
	BookName      string `json:"bookName"`
	ChapterID     string `json:"chapterId" validate:"required"`
	ChapterNumber int    `json:"chapterNumber" validate:"gte=0"`
}

func (t ChapterTarget) Type() BookmarkType { return TypeChapter }
func (t ChapterTarget) ID() string         { return t.ChapterID }
func (t ChapterTarget) apply(b *Bookmark) {
	b.BibleID, b.BibleName = t.BibleID, t.BibleName
	b.BookID, b.BookName = t.BookID, t.BookName
	b.ChapterID, b.ChapterNumber = t.ChapterID, t.ChapterNumber
}

type VerseTarget struct {
	BibleID     string `json:"bibleId" validate:"required"`
	BibleName   string `json:"bibleName"`
	BookID      string `json:"bookId"`
	BookName    string `json:"bookName"`
	ChapterID   string `json:"chapterId"`
	VerseID     string `json:"verseId" validate:"required"`
	VerseNumber int    `json:"verseNumber" validate:"gte=0"`
	VerseText   string `json:"verseText"`
}

func (t VerseTarget) Type() BookmarkType { return TypeVerse }
func (t VerseTarget) ID() string         { return t.VerseID }
func (t VerseTarget) apply(b *Bookmark) {
	b.BibleID, b.BibleName = t.BibleID, t.BibleName
	b.BookID, b.BookName = t.BookID, t.BookName
	b.ChapterID = t.ChapterID
	b.VerseID, b.VerseNumber, b.VerseText = t.VerseID, t.VerseNumber, t.VerseText
}

// Normalize trims the identifying fields in place.
func (in *CreateBookmarkInput) Normalize() {
	for _, s := range []*string{&in.UserID, &in.Type, &in.BibleID, &in.BookID, &in.ChapterID, &in.VerseID, &in.Reference} {
		*s = strings.TrimSpace(*s)
	}
}

// Target validates the input and returns its variant.
//
// Errors are ErrMissingFields (common or variant field absent) or
// ErrInvalidType, possibly wrapping the validator's field report.
func (in CreateBookmarkInput) Target() (Target, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingFields, err)
	}

	typ, ok := ParseBookmarkType(in.Type)
	if !ok {
		return nil, ErrInvalidType
	}

	var t Target
	switch typ {
	case TypeBible:
		t = BibleTarget{BibleID: in.BibleID, BibleName: in.BibleName}
	case TypeChapter:
		t = ChapterTarget{
			BibleID: in.BibleID, BibleName: in.BibleName,
			BookID: in.BookID, BookName: in.BookName,
			ChapterID: in.ChapterID, ChapterNumber: in.ChapterNumber,
		}
	case TypeVerse:
		t = VerseTarget{
			BibleID: in.BibleID, BibleName: in.BibleName,
			BookID: in.BookID, BookName: in.BookName,
			ChapterID:   in.ChapterID,
			VerseID:     in.VerseID,
			VerseNumber: in.VerseNumber,
			VerseText:   in.VerseText,
		}
	}

	if err := validate.Struct(t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingFields, err)
	}
	return t, nil
}

// NewBookmark validates the input and builds the record to persist, applying
// creation defaults.
func NewBookmark(in CreateBookmarkInput) (*Bookmark, error) {
	in.Normalize()
	target, err := in.Target()
	if err != nil {
		return nil, err
	}

	b := &Bookmark{
		UserID:      in.UserID,
		Type:        target.Type(),
		TargetID:    target.ID(),
		Title:       in.Title,
		Description: in.Description,
		Reference:   in.Reference,
		Note:        in.Note,
		Tags:        in.Tags,
	}
	target.apply(b)

	if b.Title == "" {
		b.Title = b.Reference
	}
	if b.Description == "" {
		b.Description = fmt.Sprintf("Bookmarked %s: %s", b.Type, b.Reference)
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return b, nil
}
