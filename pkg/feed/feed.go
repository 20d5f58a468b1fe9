package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/kehila-io/kehila/pkg/qna"
)

// Importer loads questions from RSS/Atom feeds. It is used to seed a fresh
// question pool or to migrate content from another community site.
type Importer struct {
	client          *http.Client
	parser          *gofeed.Parser
	defaultCategory string
}

// NewImporter creates a feed importer. Entries without a category of their
// own get defaultCategory.
func NewImporter(defaultCategory string) *Importer {
	return &Importer{
		client:          &http.Client{Timeout: 30 * time.Second},
		parser:          gofeed.NewParser(),
		defaultCategory: defaultCategory,
	}
}

// Import fetches and parses one feed and maps its entries to questions.
// Entries without a resolvable publish time get a zero CreatedAt, which the
// recommender treats as "no recency bonus".
func (im *Importer) Import(ctx context.Context, url string) ([]qna.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "kehila/1.0")

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s status %d", url, resp.StatusCode)
	}

	parsed, err := im.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}

	now := time.Now().UTC()
	var questions []qna.Question

	for _, entry := range parsed.Items {
		var created time.Time
		if entry.PublishedParsed != nil {
			created = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			created = entry.UpdatedParsed.UTC()
		}

		id := entry.GUID
		if id == "" {
			id = uuid.NewString()
		}

		category := im.defaultCategory
		if len(entry.Categories) > 0 {
			category = strings.TrimSpace(entry.Categories[0])
		}

		author := ""
		if entry.Author != nil {
			author = entry.Author.Name
		}

		questions = append(questions, qna.Question{
			ID:         id,
			Title:      entry.Title,
			Content:    truncate(entry.Description, 2000),
			Category:   category,
			AskedBy:    author,
			CreatedAt:  created,
			ImportedAt: now,
		})
	}

	return questions, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
