package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/kehila-io/kehila/pkg/qna"
)

// ErrNotFound reports that the requested record does not exist. Callers can
// rely on errors.Is to distinguish absence from a failed query.
var ErrNotFound = errors.New("not found")

// QuestionListOpts controls question listing.
type QuestionListOpts struct {
	Category string
	Since    time.Time
	Limit    int
}

// Store is the persistence interface.
type Store interface {
	GetUser(ctx context.Context, id string) (*qna.User, error)
	UpsertUser(ctx context.Context, u *qna.User) error
	ListUsers(ctx context.Context, limit int) ([]qna.User, error)
	UpdateUserRank(ctx context.Context, id string, reliability float64, trustLevel string) error

	GetQuestion(ctx context.Context, id string) (*qna.Question, error)
	UpsertQuestion(ctx context.Context, q *qna.Question) error
	UpsertQuestions(ctx context.Context, qs []qna.Question) error
	ListQuestions(ctx context.Context, opts QuestionListOpts) ([]qna.Question, error)
	CountQuestionsByCategory(ctx context.Context) (map[string]int, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*qna.User, error) {
	var u qna.User
	err := s.db.GetContext(ctx, &u, "SELECT * FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

// UpsertUser inserts or refreshes a user's counters. The derived rank fields
// are never written here, so a counter sync cannot clobber a computed rank;
// new users start at the schema defaults until the first recomputation.
func (s *SQLiteStore) UpsertUser(ctx context.Context, u *qna.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, answer_count, flower_count, last_active_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			answer_count = excluded.answer_count,
			flower_count = excluded.flower_count,
			last_active_at = excluded.last_active_at
	`, u.ID, u.DisplayName, u.AnswerCount, u.FlowerCount, u.LastActiveAt)
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", u.ID, err)
	}
	return nil
}

// ListUsers returns users ordered by id. A limit <= 0 returns all users,
// which is what the rank scheduler wants.
func (s *SQLiteStore) ListUsers(ctx context.Context, limit int) ([]qna.User, error) {
	query := "SELECT * FROM users ORDER BY id"
	var args []any

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var users []qna.User
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *SQLiteStore) UpdateUserRank(ctx context.Context, id string, reliability float64, trustLevel string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET reliability_score = ?, trust_level = ? WHERE id = ?",
		reliability, trustLevel, id)
	if err != nil {
		return fmt.Errorf("update rank %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id string) (*qna.Question, error) {
	var q qna.Question
	err := s.db.GetContext(ctx, &q, "SELECT * FROM questions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get question %s: %w", id, err)
	}
	return &q, nil
}

func (s *SQLiteStore) UpsertQuestion(ctx context.Context, q *qna.Question) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO questions (id, title, content, category, asked_by, answer_count, flower_count, created_at, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			category = excluded.category,
			answer_count = excluded.answer_count,
			flower_count = excluded.flower_count,
			imported_at = excluded.imported_at
	`, q.ID, q.Title, q.Content, q.Category, q.AskedBy,
		q.AnswerCount, q.FlowerCount, q.CreatedAt, q.ImportedAt)
	if err != nil {
		return fmt.Errorf("upsert question %s: %w", q.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertQuestions(ctx context.Context, qs []qna.Question) error {
	for i := range qs {
		if err := s.UpsertQuestion(ctx, &qs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) ListQuestions(ctx context.Context, opts QuestionListOpts) ([]qna.Question, error) {
	query := "SELECT * FROM questions WHERE 1=1"
	var args []any

	if opts.Category != "" {
		query += " AND category = ?"
		args = append(args, opts.Category)
	}
	if !opts.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, opts.Since)
	}

	query += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var questions []qna.Question
	if err := s.db.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func (s *SQLiteStore) CountQuestionsByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT category, COUNT(*) as cnt FROM questions GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("count questions by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var cnt int
		if err := rows.Scan(&category, &cnt); err != nil {
			return nil, err
		}
		counts[category] = cnt
	}
	return counts, nil
}
