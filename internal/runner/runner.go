package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zhezzma/hf-spaces-monitor/internal/domain"
	"github.com/zhezzma/hf-spaces-monitor/internal/probe"
	"github.com/zhezzma/hf-spaces-monitor/internal/rebuild"
)

// Prober performs a single liveness check against a space URL.
type Prober interface {
	Check(ctx context.Context, url string) probe.Result
}

// Rebuilder forces a factory restart and waits for a terminal stage.
type Rebuilder interface {
	Rebuild(ctx context.Context, owner string, name domain.SpaceName) rebuild.Result
}

// Runner walks the configured space list once, strictly in order. Checks
// never overlap: a rebuild holds the whole run so two authenticated
// restarts can't race each other.
type Runner struct {
	Logger        *zap.Logger
	Prober        Prober
	Rebuilder     Rebuilder
	Owner         string
	GlobalTimeout time.Duration
}

func New(logger *zap.Logger, p Prober, rb Rebuilder, owner string, globalTimeout time.Duration) *Runner {
	return &Runner{
		Logger:        logger,
		Prober:        p,
		Rebuilder:     rb,
		Owner:         owner,
		GlobalTimeout: globalTimeout,
	}
}

// RunAll produces one CheckOutcome per processed space. The global budget
// is consulted only between targets; spaces left when it trips are omitted
// from the result, not marked failed. A single slow rebuild can therefore
// overrun the budget by its own internal bound.
func (r *Runner) RunAll(ctx context.Context, spaces []domain.SpaceName) []domain.CheckOutcome {
	start := time.Now()
	outcomes := make([]domain.CheckOutcome, 0, len(spaces))

	for _, name := range spaces {
		if elapsed := time.Since(start); r.GlobalTimeout <= 0 || elapsed > r.GlobalTimeout {
			r.Logger.Warn("global_timeout",
				zap.Duration("elapsed", elapsed),
				zap.Int("skipped", len(spaces)-len(outcomes)),
			)
			break
		}

		r.Logger.Info("checking_space", zap.String("space", string(name)))

		if err := domain.ValidateSpaceName(string(name), r.Owner); err != nil {
			r.Logger.Error("invalid_space_name",
				zap.String("space", string(name)),
				zap.Error(err),
			)
			outcomes = append(outcomes, domain.CheckOutcome{
				Space: name,
				Kind:  domain.ErrInvalidName,
			})
			continue
		}

		res := r.Prober.Check(ctx, probe.SpaceURL(r.Owner, name))
		if res.Succeeded {
			outcomes = append(outcomes, domain.CheckOutcome{
				Space:     name,
				Succeeded: domain.Bool(true),
				Duration:  res.Duration,
				Kind:      domain.ErrNone,
			})
			continue
		}

		r.Logger.Info("space_unreachable",
			zap.String("space", string(name)),
			zap.String("error_kind", string(res.Kind)),
		)

		rr := r.Rebuilder.Rebuild(ctx, r.Owner, name)
		kind := domain.ErrNone
		if !rr.Succeeded {
			kind = rr.Kind
		}
		outcomes = append(outcomes, domain.CheckOutcome{
			Space:             name,
			Succeeded:         domain.Bool(rr.Succeeded),
			Duration:          rr.Duration,
			Kind:              kind,
			RecoveryAttempted: true,
		})
	}

	return outcomes
}
