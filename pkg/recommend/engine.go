package recommend

import (
	"sort"
	"time"

	"github.com/kehila-io/kehila/pkg/qna"
)

// Default scoring weights. A category match dominates: same-category
// questions stay related even with no text overlap, and it takes four shared
// keywords to outrank one.
const (
	DefaultCategoryWeight = 10.0
	DefaultKeywordWeight  = 3.0
	DefaultMaxResults     = 6

	recencyCap        = 5.0
	recencyWindowDays = 7.0

	answerWeight = 0.5
	answerCap    = 5.0
	flowerWeight = 0.2
	flowerCap    = 3.0
)

// Match pairs a candidate question with its relevance score.
type Match struct {
	Question qna.Question `json:"question"`
	Score    float64      `json:"score"`
}

// Tiles holds ranked matches split for two-column placement on the
// question page.
type Tiles struct {
	Left  []Match `json:"left"`
	Right []Match `json:"right"`
}

// Engine ranks candidate questions against a current question. It performs
// no I/O: the caller supplies the full candidate snapshot, and scoring is a
// deterministic function of that snapshot and the clock.
type Engine struct {
	categoryWeight float64
	keywordWeight  float64
	maxResults     int
	now            func() time.Time
}

// NewEngine creates a ranking engine. Zero weights fall back to the
// defaults; a nil clock uses time.Now.
func NewEngine(categoryWeight, keywordWeight float64, maxResults int, now func() time.Time) *Engine {
	if categoryWeight == 0 {
		categoryWeight = DefaultCategoryWeight
	}
	if keywordWeight == 0 {
		keywordWeight = DefaultKeywordWeight
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{
		categoryWeight: categoryWeight,
		keywordWeight:  keywordWeight,
		maxResults:     maxResults,
		now:            now,
	}
}

// Related scores every candidate in pool against current and returns the
// top matches, best first. The current question is excluded by id, and
// candidates with no relevance signal (score <= 0) are dropped entirely.
// Ties keep pool order.
func (e *Engine) Related(current qna.Question, pool []qna.Question) []Match {
	currentKeywords := TopKeywords(current.Title+" "+current.Content, DefaultMaxKeywords)
	now := e.now()

	var matches []Match
	for _, cand := range pool {
		if cand.ID == current.ID {
			continue
		}

		score := 0.0
		if cand.Category == current.Category {
			score += e.categoryWeight
		}

		candKeywords := TopKeywords(cand.Title+" "+cand.Content, DefaultMaxKeywords)
		score += e.keywordWeight * float64(KeywordOverlap(currentKeywords, candKeywords))

		score += recencyBonus(cand.CreatedAt, now)
		score += engagementBonus(cand)

		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Question: cand, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > e.maxResults {
		matches = matches[:e.maxResults]
	}
	return matches
}

// SplitTiles alternates ranked matches between the two columns by index
// parity: index 0 left, index 1 right, and so on. Each side keeps the
// relative ranking order of the items assigned to it.
func SplitTiles(ranked []Match) Tiles {
	var t Tiles
	for i, m := range ranked {
		if i%2 == 0 {
			t.Left = append(t.Left, m)
		} else {
			t.Right = append(t.Right, m)
		}
	}
	return t
}

// recencyBonus tapers linearly from recencyCap at age zero to nothing at
// five days; questions a week old or older get no bonus. A zero CreatedAt
// means the timestamp did not survive the store boundary: no bonus, never
// an error.
func recencyBonus(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}

	days := now.Sub(createdAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	if days >= recencyWindowDays {
		return 0
	}

	bonus := recencyCap - days
	if bonus < 0 {
		bonus = 0
	}
	return bonus
}

// engagementBonus rewards answered and upvoted questions, capped so
// runaway-popular questions cannot dominate on volume alone.
func engagementBonus(q qna.Question) float64 {
	answers := float64(q.AnswerCount) * answerWeight
	if answers > answerCap {
		answers = answerCap
	}

	flowers := float64(q.FlowerCount) * flowerWeight
	if flowers > flowerCap {
		flowers = flowerCap
	}

	return answers + flowers
}
