package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default limit for negatives, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("expected cap at max limit, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		ID:        uuid.New(),
	}
	encoded := EncodeCursor(cursor)

	parsed, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !parsed.CreatedAt.Equal(cursor.CreatedAt) || parsed.ID != cursor.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, cursor)
	}
}

func TestParseCursorEmptyAndInvalid(t *testing.T) {
	parsed, err := ParseCursor("  ")
	if err != nil || parsed != nil {
		t.Fatalf("blank cursor should be nil/nil, got %+v, %v", parsed, err)
	}
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := ParseCursor("aGVsbG8="); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestTrimPage(t *testing.T) {
	type row struct {
		createdAt time.Time
		id        uuid.UUID
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]row, 4)
	for i := range rows {
		rows[i] = row{createdAt: base.Add(time.Duration(i) * time.Hour), id: uuid.New()}
	}
	keyFn := func(r row) Cursor { return Cursor{CreatedAt: r.createdAt, ID: r.id} }

	page, next := TrimPage(rows, 3, keyFn)
	if len(page) != 3 {
		t.Fatalf("expected trimmed page of 3, got %d", len(page))
	}
	if next == "" {
		t.Fatal("expected next cursor when buffer row present")
	}
	parsed, err := ParseCursor(next)
	if err != nil {
		t.Fatalf("parse next cursor: %v", err)
	}
	if parsed.ID != rows[2].id {
		t.Fatal("next cursor should point at last visible row")
	}

	page, next = TrimPage(rows[:2], 3, keyFn)
	if len(page) != 2 || next != "" {
		t.Fatalf("short page should pass through without cursor, got %d/%q", len(page), next)
	}
}
