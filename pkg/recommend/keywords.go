package recommend

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// stopWords are common Hebrew function words (pronouns, prepositions,
// conjunctions) plus a few English ones. They carry no topical signal in
// question text. Treated as a process-wide constant.
var stopWords = map[string]bool{
	"של": true, "את": true, "על": true, "עם": true, "זה": true,
	"זאת": true, "אני": true, "אתה": true, "אתם": true, "אנחנו": true,
	"הוא": true, "היא": true, "הם": true, "הן": true,
	"שלי": true, "שלך": true, "שלו": true, "שלה": true,
	"שלנו": true, "שלכם": true, "שלהם": true,
	"אבל": true, "גם": true, "רק": true, "כי": true, "אם": true,
	"או": true, "מה": true, "מי": true, "איך": true, "למה": true,
	"איפה": true, "מתי": true, "כמו": true, "יש": true, "אין": true,
	"לא": true, "כן": true, "כל": true, "עוד": true, "היה": true,
	"היתה": true, "היו": true, "אז": true, "ככה": true, "כאן": true,
	"שם": true, "אצל": true, "בין": true, "עד": true, "אחרי": true,
	"לפני": true, "בגלל": true, "כדי": true, "האם": true, "הזה": true,
	"הזאת": true, "האלה": true, "משהו": true, "מישהו": true,
	"the": true, "a": true, "an": true,
	"is": true, "are": true, "was": true, "were": true,
}

// nonWord matches runs of characters that are neither Hebrew letters
// (U+0590..U+05FF), ASCII word characters, nor whitespace. Stripping them
// removes punctuation while keeping both alphabets intact.
var nonWord = regexp.MustCompile(`[^\x{0590}-\x{05FF}\w\s]+`)

// DefaultMaxKeywords is how many keywords ExtractKeywords keeps.
const DefaultMaxKeywords = 10

// ExtractKeywords returns the most frequent meaningful tokens of text,
// most frequent first, capped at DefaultMaxKeywords.
func ExtractKeywords(text string) []string {
	return TopKeywords(text, DefaultMaxKeywords)
}

// TopKeywords lowercases text, strips punctuation, drops tokens of two runes
// or fewer and stop words, and returns up to limit distinct tokens ordered by
// descending frequency. Ties keep first-occurrence order.
func TopKeywords(text string, limit int) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), "")

	counts := make(map[string]int)
	var order []string // distinct tokens in first-occurrence order
	for _, tok := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(tok) <= 2 || stopWords[tok] {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}

// KeywordOverlap counts the distinct terms present in both keyword lists.
func KeywordOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inA := make(map[string]bool, len(a))
	for _, t := range a {
		inA[t] = true
	}

	seen := make(map[string]bool, len(b))
	overlap := 0
	for _, t := range b {
		if inA[t] && !seen[t] {
			seen[t] = true
			overlap++
		}
	}
	return overlap
}
