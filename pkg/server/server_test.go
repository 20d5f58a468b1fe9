package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kehila-io/kehila/internal/store"
	"github.com/kehila-io/kehila/pkg/qna"
	"github.com/kehila-io/kehila/pkg/recommend"
	"github.com/kehila-io/kehila/pkg/trust"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()

	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := func() time.Time { return testNow }
	srv := New(db, trust.NewService(db, 0, 0, clock), recommend.NewEngine(0, 0, 0, clock), 0)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, db
}

func getJSON(t *testing.T, url string, wantStatus int) map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("get %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return body
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	body := getJSON(t, ts.URL+"/health", http.StatusOK)
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestUserScore(t *testing.T) {
	ts, db := newTestServer(t)

	u := qna.User{ID: "u1", AnswerCount: 10, FlowerCount: 8, LastActiveAt: testNow}
	if err := db.UpsertUser(context.Background(), &u); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	body := getJSON(t, ts.URL+"/api/v1/users/u1/score", http.StatusOK)
	if body["tier"] != "active" {
		t.Fatalf("tier = %v, want active", body["tier"])
	}
	if score := body["score"].(float64); score < 66 || score > 67 {
		t.Fatalf("score = %v, want ~66.7", score)
	}

	getJSON(t, ts.URL+"/api/v1/users/missing/score", http.StatusNotFound)
}

func TestUserRankEndpoint(t *testing.T) {
	ts, db := newTestServer(t)
	ctx := context.Background()

	u := qna.User{ID: "u1", AnswerCount: 10, FlowerCount: 8, LastActiveAt: testNow}
	if err := db.UpsertUser(ctx, &u); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	resp, err := http.Post(ts.URL+"/api/v1/users/u1/rank", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var rank trust.Rank
	if err := json.NewDecoder(resp.Body).Decode(&rank); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rank.Tier != trust.TierActive {
		t.Fatalf("tier = %s, want active", rank.Tier)
	}

	got, err := db.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.TrustLevel != "active" {
		t.Fatalf("persisted tier = %s, want active", got.TrustLevel)
	}
}

func TestRelatedEndpoint(t *testing.T) {
	ts, db := newTestServer(t)
	ctx := context.Background()

	old := testNow.AddDate(0, 0, -30)
	questions := []qna.Question{
		{ID: "q1", Title: "חתול שחור", Category: "X", CreatedAt: old, ImportedAt: old},
		{ID: "q2", Title: "מתכון לעוגה", Category: "X", CreatedAt: old, ImportedAt: old},
		{ID: "q3", Title: "חתול שחור", Category: "Y", CreatedAt: old, ImportedAt: old},
		{ID: "q4", Title: "מזג אוויר", Category: "Y", CreatedAt: old, ImportedAt: old},
	}
	if err := db.UpsertQuestions(ctx, questions); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	body := getJSON(t, ts.URL+"/api/v1/questions/q1/related", http.StatusOK)
	if body["count"].(float64) != 2 {
		t.Fatalf("count = %v, want 2", body["count"])
	}

	matches := body["matches"].([]any)
	first := matches[0].(map[string]any)["question"].(map[string]any)
	if first["id"] != "q2" {
		t.Fatalf("first match = %v, want q2 (category beats keywords)", first["id"])
	}

	tiles := body["tiles"].(map[string]any)
	if len(tiles["left"].([]any)) != 1 || len(tiles["right"].([]any)) != 1 {
		t.Fatalf("tiles = %v, want 1 left and 1 right", tiles)
	}

	getJSON(t, ts.URL+"/api/v1/questions/missing/related", http.StatusNotFound)
}

func TestQuestionsAndCategories(t *testing.T) {
	ts, db := newTestServer(t)
	ctx := context.Background()

	base := testNow.AddDate(0, 0, -1)
	questions := []qna.Question{
		{ID: "q1", Title: "א", Category: "גינון", CreatedAt: base, ImportedAt: base},
		{ID: "q2", Title: "ב", Category: "בישול", CreatedAt: base, ImportedAt: base},
	}
	if err := db.UpsertQuestions(ctx, questions); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	body := getJSON(t, ts.URL+"/api/v1/questions?category=%D7%92%D7%99%D7%A0%D7%95%D7%9F", http.StatusOK)
	if body["count"].(float64) != 1 {
		t.Fatalf("filtered count = %v, want 1", body["count"])
	}

	body = getJSON(t, ts.URL+"/api/v1/categories", http.StatusOK)
	counts := body["data"].(map[string]any)
	if counts["גינון"].(float64) != 1 || counts["בישול"].(float64) != 1 {
		t.Fatalf("counts = %v", counts)
	}
}
