package content

import (
	"context"
	"testing"
)

func TestKeysAreDistinct(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"bibles", BiblesKey()},
		{"books", BooksKey("kjv:GEN.1")},
		{"chapters", ChaptersKey("kjv", "GEN.1")},
		{"chapters shifted colon", ChaptersKey("kjv:GEN", "1")},
		{"chapters trailing colon", ChaptersKey("kjv", "GEN:1")},
		{"verses", VersesKey("kjv", "GEN.1")},
		{"verses colon in bible", VersesKey("kjv:GEN.1", "")},
		{"verse", VerseKey("kjv", "GEN.1")},
		{"chapter with colon", ChapterKey("kjv:GEN.1")},
		{"chapter", ChapterKey("GEN.1")},
		{"chapter escaped colon", ChapterKey("kjv%3AGEN.1")},
	}

	seen := make(map[string]string, len(tests))
	for _, tt := range tests {
		if prev, ok := seen[tt.key]; ok {
			t.Errorf("%s and %s share key %q", prev, tt.name, tt.key)
			continue
		}
		seen[tt.key] = tt.name
	}
}

func TestChapterDoesNotReadVerseList(t *testing.T) {
	svc, stub, _ := newService(t, 200)
	ctx := context.Background()

	if _, err := svc.ListVerses(ctx, "kjv", "GEN.1"); err != nil {
		t.Fatalf("ListVerses() error = %v", err)
	}
	if _, err := svc.GetChapter(ctx, "kjv:GEN.1"); err != nil {
		t.Fatalf("GetChapter() error = %v", err)
	}

	if got := stub.hits.Load(); got != 2 {
		t.Errorf("upstream hits = %d, want 2", got)
	}
}
