package trust

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kehila-io/kehila/internal/store"
	"github.com/kehila-io/kehila/pkg/qna"
)

// Tier is a discrete trust level derived from the reliability score.
type Tier string

const (
	TierNewbie  Tier = "newbie"
	TierMember  Tier = "member"
	TierActive  Tier = "active"
	TierTrusted Tier = "trusted"
	TierLegend  Tier = "legend"
)

// Default Bayesian smoothing parameters: new users are pulled toward the
// community-wide success rate until they accumulate enough answers.
const (
	DefaultPriorWeight = 5.0
	DefaultGlobalRate  = 0.4
)

// Inactivity decay: a 30-day grace period, then 0.3% per day, never below
// a 10% multiplier so a score cannot fully vanish.
const (
	decayGraceDays = 30
	decayPerDay    = 0.003
	decayFloor     = 0.1
)

var tierOrder = map[Tier]int{
	TierNewbie:  0,
	TierMember:  1,
	TierActive:  2,
	TierTrusted: 3,
	TierLegend:  4,
}

// Outranks reports whether t is a higher tier than other. Unknown labels
// (including the empty string on a never-ranked user) rank below newbie.
func (t Tier) Outranks(other Tier) bool {
	return tierOrder[t] > tierOrder[other]
}

// TierFor maps a 0-100 reliability score to its tier. Boundaries are
// inclusive lower bounds.
func TierFor(score float64) Tier {
	switch {
	case score >= 90:
		return TierLegend
	case score >= 75:
		return TierTrusted
	case score >= 50:
		return TierActive
	case score >= 20:
		return TierMember
	default:
		return TierNewbie
	}
}

// Rank is the outcome of a recomputation. PrevTier is the tier that was
// persisted before the update, so callers can detect level-ups.
type Rank struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
	Tier        Tier    `json:"tier"`
	PrevTier    Tier    `json:"prev_tier"`
}

// Service computes per-user reliability scores and trust tiers.
type Service struct {
	store       store.Store
	priorWeight float64
	globalRate  float64
	now         func() time.Time
}

// NewService creates a trust service. Zero or negative smoothing parameters
// fall back to the defaults; a nil clock uses time.Now.
func NewService(s store.Store, priorWeight, globalRate float64, now func() time.Time) *Service {
	if priorWeight <= 0 {
		priorWeight = DefaultPriorWeight
	}
	if globalRate <= 0 {
		globalRate = DefaultGlobalRate
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:       s,
		priorWeight: priorWeight,
		globalRate:  globalRate,
		now:         now,
	}
}

// Score reads the user and returns their reliability score in [0, 100].
// The only failure mode is an absent user record, reported via
// store.ErrNotFound.
func (s *Service) Score(ctx context.Context, userID string) (float64, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("score: %w", err)
	}
	return s.scoreUser(u), nil
}

// UpdateRank recomputes the user's score, persists it (as a 0-1 fraction)
// together with the tier, and returns the result. It is a full recomputation
// from current counters, so re-running it is always safe.
func (s *Service) UpdateRank(ctx context.Context, userID string) (Rank, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return Rank{}, fmt.Errorf("update rank: %w", err)
	}

	score := s.scoreUser(u)
	tier := TierFor(score)

	if err := s.store.UpdateUserRank(ctx, userID, score/100, string(tier)); err != nil {
		return Rank{}, fmt.Errorf("update rank: %w", err)
	}

	return Rank{
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Score:       score,
		Tier:        tier,
		PrevTier:    Tier(u.TrustLevel),
	}, nil
}

// scoreUser is the pure scoring function: Bayesian-average success rate
// times the inactivity decay, scaled to 0-100.
func (s *Service) scoreUser(u *qna.User) float64 {
	volume := float64(u.AnswerCount)
	rate := 0.0
	if volume > 0 {
		rate = float64(u.FlowerCount) / volume
	}

	raw := (volume*rate + s.priorWeight*s.globalRate) / (volume + s.priorWeight)

	score := raw * s.decayFactor(u.LastActiveAt)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	score *= 100
	if score > 100 {
		score = 100
	}
	return score
}

// decayFactor returns the inactivity multiplier for a last-active timestamp.
// Days are counted as the ceiling of elapsed time, minimum one. A zero
// timestamp means the user never registered activity and decays at the floor.
func (s *Service) decayFactor(lastActive time.Time) float64 {
	if lastActive.IsZero() {
		return decayFloor
	}

	days := int(math.Ceil(s.now().Sub(lastActive).Hours() / 24))
	if days < 1 {
		days = 1
	}
	if days < decayGraceDays {
		return 1.0
	}

	d := 1.0 - float64(days-decayGraceDays)*decayPerDay
	if d < decayFloor {
		d = decayFloor
	}
	return d
}
