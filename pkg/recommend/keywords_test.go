package recommend

import (
	"reflect"
	"testing"
)

func TestTopKeywordsFrequencyOrder(t *testing.T) {
	got := TopKeywords("שלום שלום עולם", 10)
	want := []string{"שלום", "עולם"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopKeywords = %v, want %v", got, want)
	}
}

func TestTopKeywordsFiltering(t *testing.T) {
	// "של" is a stop word, "אב" is too short, "the"/"is" are stop words.
	got := TopKeywords("שלום שלום עולם של אב the is", 10)
	want := []string{"שלום", "עולם"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopKeywords = %v, want %v", got, want)
	}
}

func TestTopKeywordsStripsPunctuation(t *testing.T) {
	got := TopKeywords("חתול, שחור! (מאוד)", 10)
	want := []string{"חתול", "שחור", "מאוד"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopKeywords = %v, want %v", got, want)
	}
}

func TestTopKeywordsMixedAlphabets(t *testing.T) {
	got := TopKeywords("Docker docker בעיה עם docker", 10)
	want := []string{"docker", "בעיה"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopKeywords = %v, want %v", got, want)
	}
}

func TestTopKeywordsLimit(t *testing.T) {
	text := "אבא אמא ילד ילדה בית ספר מורה תלמיד כיתה לוח מחברת עיפרון"
	got := TopKeywords(text, 10)
	if len(got) != 10 {
		t.Fatalf("len(TopKeywords) = %d, want 10", len(got))
	}
}

func TestTopKeywordsTiesKeepFirstOccurrence(t *testing.T) {
	got := TopKeywords("ראשון שני שלישי", 10)
	want := []string{"ראשון", "שני", "שלישי"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopKeywords = %v, want %v", got, want)
	}
}

func TestTopKeywordsEmpty(t *testing.T) {
	if got := TopKeywords("", 10); len(got) != 0 {
		t.Fatalf("TopKeywords(\"\") = %v, want empty", got)
	}
	if got := TopKeywords("של את על", 10); len(got) != 0 {
		t.Fatalf("TopKeywords(stop words only) = %v, want empty", got)
	}
}

func TestExtractKeywordsCap(t *testing.T) {
	text := "אבא אמא ילד ילדה בית ספר מורה תלמיד כיתה לוח מחברת עיפרון"
	if got := ExtractKeywords(text); len(got) != DefaultMaxKeywords {
		t.Fatalf("len(ExtractKeywords) = %d, want %d", len(got), DefaultMaxKeywords)
	}
}

func TestKeywordOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want int
	}{
		{"disjoint", []string{"חתול", "שחור"}, []string{"כלב", "לבן"}, 0},
		{"partial", []string{"חתול", "שחור"}, []string{"שחור", "לבן"}, 1},
		{"full", []string{"חתול", "שחור"}, []string{"חתול", "שחור"}, 2},
		{"duplicates collapsed", []string{"חתול", "שחור"}, []string{"שחור", "שחור", "שחור"}, 1},
		{"empty a", nil, []string{"חתול"}, 0},
		{"empty b", []string{"חתול"}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeywordOverlap(tt.a, tt.b); got != tt.want {
				t.Fatalf("KeywordOverlap(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
