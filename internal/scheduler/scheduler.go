package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kehila-io/kehila/internal/store"
	"github.com/kehila-io/kehila/pkg/notify"
	"github.com/kehila-io/kehila/pkg/trust"
)

// Scheduler periodically recomputes every user's rank. Recomputation is
// idempotent, so overlapping runs or restarts are harmless.
type Scheduler struct {
	store     store.Store
	trust     *trust.Service
	notifyMgr *notify.Manager
	interval  time.Duration
}

// New creates a new scheduler.
func New(s store.Store, t *trust.Service, notifyMgr *notify.Manager, interval time.Duration) *Scheduler {
	if interval == 0 {
		interval = 1 * time.Hour
	}
	return &Scheduler{
		store:     s,
		trust:     t,
		notifyMgr: notifyMgr,
		interval:  interval,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial rank recomputation...")
	s.rankAll(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (rank every %s)\n", s.interval)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			fmt.Fprintln(os.Stderr, "scheduler: recomputing ranks...")
			s.rankAll(ctx)
		}
	}
}

func (s *Scheduler) rankAll(ctx context.Context) {
	users, err := s.store.ListUsers(ctx, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  list users error: %v\n", err)
		return
	}

	ranked := 0
	for _, u := range users {
		rank, err := s.trust.UpdateRank(ctx, u.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  rank error for %s: %v\n", u.ID, err)
			continue
		}
		ranked++

		// Announce promotions only; demotions stay quiet.
		if rank.Tier.Outranks(rank.PrevTier) && s.notifyMgr.HasNotifiers() {
			n := &notify.Notification{
				UserID:      rank.UserID,
				DisplayName: rank.DisplayName,
				Score:       rank.Score,
				OldTier:     string(rank.PrevTier),
				NewTier:     string(rank.Tier),
			}
			if err := s.notifyMgr.Broadcast(ctx, n); err != nil {
				fmt.Fprintf(os.Stderr, "  notify error for %s: %v\n", rank.UserID, err)
				continue
			}
			fmt.Fprintf(os.Stderr, "  level up: %s -> %s (score: %.1f)\n",
				rank.UserID, rank.Tier, rank.Score)
		}
	}

	fmt.Fprintf(os.Stderr, "  ranked %d/%d users\n", ranked, len(users))
}
