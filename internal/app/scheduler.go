package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"immich-face-album/internal/reconcile"
)

// Reconciler performs a single pass for one identity.
type Reconciler interface {
	Reconcile(ctx context.Context, id reconcile.Identity) (reconcile.PassResult, error)
}

// Scheduler runs a pass for every identity, then sleeps, forever.
type Scheduler struct {
	Identities []reconcile.Identity
	Reconciler Reconciler
	Policy     FailurePolicy
	Interval   time.Duration
	// Once stops after the first round of passes.
	Once bool
}

// Run drives the passes until ctx is cancelled, or until a pass fails under
// [PolicyExit]. Cancellation is not an error.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		slog.Info("starting passes", "time", time.Now().Format(time.DateTime), "identities", len(s.Identities))
		if err := s.tick(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		slog.Info("-------------------------------------")
		if s.Once {
			return nil
		}

		next := time.Now().Add(s.Interval)
		slog.Info("sleeping until next pass", "interval", s.Interval.String(), "next", humanize.Time(next))
		if err := reconcile.Sleep(ctx, s.Interval); err != nil {
			slog.Info("stopping", "reason", err)
			return nil
		}
	}
}

// tick runs one pass per identity in order.
func (s *Scheduler) tick(ctx context.Context) error {
	for _, id := range s.Identities {
		res, err := s.Reconciler.Reconcile(ctx, id)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err == nil {
			slog.Debug("pass complete", "identity", id.String(), "person", id.Person,
				"found", res.Found, "added", res.Added, "duplicates", res.Duplicates, "failed", res.Failed)
			continue
		}
		if s.Policy == PolicyExit {
			return fmt.Errorf("pass for %s (person %s) failed: %w", id, id.Person, err)
		}
		slog.Warn("pass failed, skipping", "identity", id.String(), "person", id.Person, "error", err)
	}
	return nil
}
