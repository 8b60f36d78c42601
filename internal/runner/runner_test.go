package runner

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zhezzma/hf-spaces-monitor/internal/domain"
	"github.com/zhezzma/hf-spaces-monitor/internal/probe"
	"github.com/zhezzma/hf-spaces-monitor/internal/rebuild"
)

// --- fakes ---

type fakeProber struct {
	calls   []string
	results map[string]probe.Result
}

func (f *fakeProber) Check(_ context.Context, url string) probe.Result {
	f.calls = append(f.calls, url)
	if r, ok := f.results[url]; ok {
		return r
	}
	return probe.Result{Succeeded: true, Duration: 0.1, Kind: domain.ErrNone, Status: 200}
}

type fakeRebuilder struct {
	calls []domain.SpaceName
	out   rebuild.Result
}

func (f *fakeRebuilder) Rebuild(_ context.Context, _ string, name domain.SpaceName) rebuild.Result {
	f.calls = append(f.calls, name)
	return f.out
}

func newRunner(p Prober, rb Rebuilder, timeout time.Duration) *Runner {
	return New(zap.NewNop(), p, rb, "alice", timeout)
}

// --- tests ---

func TestRunAll_HealthySpaceSkipsRecovery(t *testing.T) {
	p := &fakeProber{}
	rb := &fakeRebuilder{}
	out := newRunner(p, rb, time.Minute).RunAll(context.Background(), []domain.SpaceName{"demo"})

	if len(out) != 1 {
		t.Fatalf("want 1 outcome, got %d", len(out))
	}
	o := out[0]
	if o.Succeeded == nil || !*o.Succeeded || o.RecoveryAttempted || o.Kind != domain.ErrNone {
		t.Fatalf("unexpected outcome: %+v", o)
	}
	if len(rb.calls) != 0 {
		t.Fatalf("healthy space must not trigger recovery, got %d calls", len(rb.calls))
	}
	if len(p.calls) != 1 || p.calls[0] != "https://alice-demo.hf.space" {
		t.Fatalf("unexpected probe calls: %v", p.calls)
	}
}

func TestRunAll_UnreachableTriggersExactlyOneRecovery(t *testing.T) {
	url := "https://alice-demo.hf.space"
	p := &fakeProber{results: map[string]probe.Result{
		url: {Duration: 0.5, Kind: domain.ErrConnection},
	}}
	rb := &fakeRebuilder{out: rebuild.Result{Succeeded: true, Duration: 95.0, Kind: domain.ErrNone, Stage: "RUNNING"}}

	out := newRunner(p, rb, time.Minute).RunAll(context.Background(), []domain.SpaceName{"demo"})
	if len(rb.calls) != 1 || rb.calls[0] != "demo" {
		t.Fatalf("want exactly one recovery for demo, got %v", rb.calls)
	}
	o := out[0]
	if o.Succeeded == nil || !*o.Succeeded || !o.RecoveryAttempted {
		t.Fatalf("recovered space should report success: %+v", o)
	}
	if o.Kind != domain.ErrNone {
		t.Fatalf("successful recovery must clear the error kind, got %q", o.Kind)
	}
	if o.Duration != 95.0 {
		t.Fatalf("outcome should carry the recovery duration, got %f", o.Duration)
	}
}

func TestRunAll_RecoveryFailureKeepsItsErrorKind(t *testing.T) {
	url := "https://alice-demo.hf.space"
	p := &fakeProber{results: map[string]probe.Result{
		url: {Duration: 0.5, Kind: domain.ErrHTTP, Status: 502},
	}}
	rb := &fakeRebuilder{out: rebuild.Result{Duration: 610.0, Kind: domain.ErrTimeout}}

	out := newRunner(p, rb, time.Minute).RunAll(context.Background(), []domain.SpaceName{"demo"})
	o := out[0]
	if !o.Failed() || !o.RecoveryAttempted || o.Kind != domain.ErrTimeout {
		t.Fatalf("unexpected outcome: %+v", o)
	}
}

func TestRunAll_InvalidNameNeverProbed(t *testing.T) {
	p := &fakeProber{}
	rb := &fakeRebuilder{}
	out := newRunner(p, rb, time.Minute).RunAll(context.Background(),
		[]domain.SpaceName{"bad name", "ok-app"})

	if len(out) != 2 {
		t.Fatalf("want 2 outcomes, got %d", len(out))
	}
	if out[0].Succeeded != nil || out[0].Kind != domain.ErrInvalidName || out[0].RecoveryAttempted {
		t.Fatalf("unexpected invalid outcome: %+v", out[0])
	}
	if out[0].Duration != 0 {
		t.Fatalf("invalid name must not spend time, got %f", out[0].Duration)
	}
	// only the valid space reached the network
	if len(p.calls) != 1 || p.calls[0] != "https://alice-ok-app.hf.space" {
		t.Fatalf("unexpected probe calls: %v", p.calls)
	}
	if len(rb.calls) != 0 {
		t.Fatalf("invalid name must not trigger recovery")
	}
}

func TestRunAll_ZeroGlobalTimeoutProcessesNothing(t *testing.T) {
	p := &fakeProber{}
	rb := &fakeRebuilder{}
	out := newRunner(p, rb, 0).RunAll(context.Background(),
		[]domain.SpaceName{"a", "b", "c"})

	if len(out) != 0 {
		t.Fatalf("want no outcomes under zero budget, got %d", len(out))
	}
	if len(p.calls) != 0 {
		t.Fatalf("want no probe calls, got %d", len(p.calls))
	}
}

func TestRunAll_PreservesInputOrder(t *testing.T) {
	p := &fakeProber{}
	rb := &fakeRebuilder{}
	spaces := []domain.SpaceName{"c", "a", "b"}
	out := newRunner(p, rb, time.Minute).RunAll(context.Background(), spaces)

	for i, s := range spaces {
		if out[i].Space != s {
			t.Fatalf("order not preserved at %d: want %q got %q", i, s, out[i].Space)
		}
	}
}
