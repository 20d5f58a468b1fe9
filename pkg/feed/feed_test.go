package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>פורום שאלות</title>
    <item>
      <title>איך מגדלים עגבניות במרפסת?</title>
      <description>יש לי מרפסת קטנה עם הרבה שמש</description>
      <guid>q-100</guid>
      <pubDate>Mon, 02 Mar 2026 10:00:00 GMT</pubDate>
      <category>גינון</category>
    </item>
    <item>
      <title>שאלה בלי מזהה ובלי תאריך</title>
      <description>תוכן כלשהו</description>
    </item>
  </channel>
</rss>`

func TestImportMapsEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	questions, err := NewImporter("כללי").Import(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("len = %d, want 2", len(questions))
	}

	first := questions[0]
	if first.ID != "q-100" {
		t.Fatalf("id = %s, want the feed GUID", first.ID)
	}
	if first.Category != "גינון" {
		t.Fatalf("category = %s, want from feed", first.Category)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("created at must come from pubDate")
	}
	if first.ImportedAt.IsZero() {
		t.Fatal("imported at must be set")
	}

	second := questions[1]
	if second.ID == "" {
		t.Fatal("missing GUID must fall back to a generated id")
	}
	if second.Category != "כללי" {
		t.Fatalf("category = %s, want the default", second.Category)
	}
	// No pubDate: the zero timestamp means "no recency bonus" downstream.
	if !second.CreatedAt.IsZero() {
		t.Fatalf("created at = %v, want zero", second.CreatedAt)
	}
}

func TestImportBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewImporter("כללי").Import(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-200 feed response")
	}
}
