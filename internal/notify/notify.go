package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhezzma/hf-spaces-monitor/internal/domain"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, title, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FailureSummary renders one run's failures into a notification message.
// The second return is false when nothing failed and no send is needed.
func FailureSummary(owner string, outcomes []domain.CheckOutcome) (title, text string, ok bool) {
	var lines []string
	for _, o := range outcomes {
		if !o.Failed() {
			continue
		}
		verb := "unreachable"
		if o.RecoveryAttempted {
			verb = "rebuild failed"
		}
		lines = append(lines, fmt.Sprintf("%s/%s: %s (%s, %.2fs)",
			owner, o.Space, verb, o.Kind, o.Duration))
	}
	if len(lines) == 0 {
		return "", "", false
	}
	title = fmt.Sprintf("🔴 %d space(s) down for %s", len(lines), owner)
	return title, strings.Join(lines, "\n"), true
}
