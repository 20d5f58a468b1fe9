package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/kehila-io/kehila/internal/config"
	"github.com/kehila-io/kehila/internal/scheduler"
	"github.com/kehila-io/kehila/internal/store"
	"github.com/kehila-io/kehila/pkg/feed"
	"github.com/kehila-io/kehila/pkg/notify"
	"github.com/kehila-io/kehila/pkg/recommend"
	"github.com/kehila-io/kehila/pkg/server"
	"github.com/kehila-io/kehila/pkg/trust"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildTrust(cfg *config.Config, db store.Store) *trust.Service {
	return trust.NewService(db, cfg.Trust.PriorWeight, cfg.Trust.GlobalRate, nil)
}

func buildEngine(cfg *config.Config, maxResults int) *recommend.Engine {
	if maxResults <= 0 {
		maxResults = cfg.Recommend.MaxResults
	}
	return recommend.NewEngine(cfg.Recommend.CategoryWeight, cfg.Recommend.KeywordWeight, maxResults, nil)
}

func buildNotifyManager(cfg *config.Config) *notify.Manager {
	var notifiers []notify.Notifier

	if cfg.Notify.Slack.Enabled && cfg.Notify.Slack.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlack(cfg.Notify.Slack.WebhookURL))
	}
	if cfg.Notify.Discord.Enabled && cfg.Notify.Discord.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewDiscord(cfg.Notify.Discord.WebhookURL))
	}
	if cfg.Notify.Webhook.Enabled && cfg.Notify.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.Notify.Webhook.URL, cfg.Notify.Webhook.Secret))
	}

	return notify.NewManager(notifiers)
}

func runRank(userIDs []string, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	svc := buildTrust(cfg, db)
	ctx := context.Background()

	if len(userIDs) == 0 {
		users, err := db.ListUsers(ctx, 0)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		for _, u := range users {
			userIDs = append(userIDs, u.ID)
		}
	}

	var ranks []trust.Rank
	for _, id := range userIDs {
		rank, err := svc.UpdateRank(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  rank error for %s: %v\n", id, err)
			continue
		}
		ranks = append(ranks, rank)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ranks)
	}

	if len(ranks) == 0 {
		fmt.Println("no users ranked (try importing users first)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tTIER\tUSER\tNAME")
	for _, rank := range ranks {
		fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\n",
			rank.Score, rank.Tier, rank.UserID, rank.DisplayName)
	}
	return w.Flush()
}

func runRelated(questionID string, maxResults int, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	current, err := db.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}

	pool, err := db.ListQuestions(ctx, store.QuestionListOpts{Limit: 1000})
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}

	engine := buildEngine(cfg, maxResults)
	matches := engine.Related(*current, pool)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recommend.SplitTiles(matches))
	}

	if len(matches) == 0 {
		fmt.Println("no related questions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tCATEGORY\tTITLE\tCREATED")
	for _, m := range matches {
		created := ""
		if !m.Question.CreatedAt.IsZero() {
			created = m.Question.CreatedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\n",
			m.Score, m.Question.Category, m.Question.Title, created)
	}
	return w.Flush()
}

func runImport(feedURL, category string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if category == "" {
		category = cfg.Import.DefaultCategory
	}

	urls := []string{feedURL}
	if feedURL == "" {
		urls = urls[:0]
		for _, f := range cfg.Import.Feeds {
			urls = append(urls, f.URL)
		}
		if len(urls) == 0 {
			return fmt.Errorf("no feed URL given and no feeds in config")
		}
	}

	importer := feed.NewImporter(category)
	ctx := context.Background()
	total := 0

	for _, url := range urls {
		fmt.Fprintf(os.Stderr, "importing from %s...\n", url)
		questions, err := importer.Import(ctx, url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  error: %v\n", err)
			continue
		}

		if err := db.UpsertQuestions(ctx, questions); err != nil {
			fmt.Fprintf(os.Stderr, "  store error: %v\n", err)
			continue
		}

		fmt.Fprintf(os.Stderr, "  imported %d questions\n", len(questions))
		total += len(questions)
	}

	fmt.Fprintf(os.Stderr, "\ntotal: %d questions from %d feeds\n", total, len(urls))
	return nil
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	srv := server.New(db, buildTrust(cfg, db), buildEngine(cfg, 0), port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	svc := buildTrust(cfg, db)
	notifyMgr := buildNotifyManager(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(db, svc, notifyMgr, cfg.Schedule.ParseRankInterval())

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	srv := server.New(db, svc, buildEngine(cfg, 0), port)
	return srv.ListenAndServe()
}
