package content

import "github.com/MrSnakeDoc/fellowship/internal/cache"

// Cache key kinds, one per resource shape.
const (
	kindBibles   = "bibles"
	kindBooks    = "books"
	kindChapters = "chapters"
	kindVerses   = "verses"
	kindVerse    = "verse"
	kindChapter  = "chapter"
)

func BiblesKey() string { return cache.Key(kindBibles) }

func BooksKey(bibleID string) string { return cache.Key(kindBooks, bibleID) }

func ChaptersKey(bibleID, bookID string) string { return cache.Key(kindChapters, bibleID, bookID) }

func VersesKey(bibleID, chapterID string) string { return cache.Key(kindVerses, bibleID, chapterID) }

func VerseKey(bibleID, verseID string) string { return cache.Key(kindVerse, bibleID, verseID) }

func ChapterKey(chapterID string) string { return cache.Key(kindChapter, chapterID) }
