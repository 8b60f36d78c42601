package rebuild

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhezzma/hf-spaces-monitor/internal/domain"
	"github.com/zhezzma/hf-spaces-monitor/internal/probe"
)

const DefaultBaseURL = "https://huggingface.co"

// Result is the terminal state of one rebuild attempt.
type Result struct {
	Succeeded bool
	Duration  float64 // seconds since the restart request was issued
	Kind      domain.ErrorKind
	Stage     string // last runtime stage seen, if any
}

// Rebuilder forces a factory restart of a space and polls its runtime
// stage until RUNNING, an ERROR stage, a request failure, or until the
// poll budget or attempt cap runs out. The dual bound matters: the
// attempt cap stops a status endpoint that answers instantly forever,
// the wall clock stops slow-but-frequent answers.
type Rebuilder struct {
	Client       *http.Client
	Logger       *zap.Logger
	BaseURL      string
	Token        string
	PollInterval time.Duration // wait before each status query
	PollBudget   time.Duration // wall-clock cap on the whole poll loop
	MaxAttempts  int
}

func New(logger *zap.Logger, token string) *Rebuilder {
	return &Rebuilder{
		Client:       &http.Client{Timeout: 30 * time.Second},
		Logger:       logger,
		BaseURL:      DefaultBaseURL,
		Token:        token,
		PollInterval: 30 * time.Second,
		PollBudget:   10 * time.Minute,
		MaxAttempts:  10,
	}
}

type runtimeStatus struct {
	Stage string `json:"stage"`
}

// Rebuild runs the recovery state machine for owner/name.
func (r *Rebuilder) Rebuild(ctx context.Context, owner string, name domain.SpaceName) Result {
	restartURL := fmt.Sprintf("%s/api/spaces/%s/%s/restart?factory=true", r.BaseURL, owner, name)
	statusURL := fmt.Sprintf("%s/api/spaces/%s/%s/runtime", r.BaseURL, owner, name)

	start := time.Now()

	if kind := r.restart(ctx, restartURL); kind != domain.ErrNone {
		dur := time.Since(start).Seconds()
		r.Logger.Error("rebuild_request_failed",
			zap.String("space", string(name)),
			zap.Float64("duration_s", dur),
			zap.String("error_kind", string(kind)),
		)
		return Result{Duration: dur, Kind: kind}
	}
	r.Logger.Info("rebuild_requested", zap.String("space", string(name)))

	for attempt := 0; attempt < r.MaxAttempts && time.Since(start) < r.PollBudget; attempt++ {
		select {
		case <-ctx.Done():
			return Result{Duration: time.Since(start).Seconds(), Kind: domain.ErrUnknown}
		case <-time.After(r.PollInterval):
		}

		stage, kind := r.stage(ctx, statusURL)
		dur := time.Since(start).Seconds()
		if kind != domain.ErrNone {
			// a failing status endpoint is terminal; polling past it
			// would only repeat the same failure
			r.Logger.Error("rebuild_status_failed",
				zap.String("space", string(name)),
				zap.Float64("duration_s", dur),
				zap.String("error_kind", string(kind)),
			)
			return Result{Duration: dur, Kind: kind}
		}

		r.Logger.Info("rebuild_stage",
			zap.String("space", string(name)),
			zap.String("stage", stage),
			zap.Int("attempt", attempt+1),
		)

		switch {
		case stage == "RUNNING":
			r.Logger.Info("rebuild_ok",
				zap.String("space", string(name)),
				zap.Float64("duration_s", dur),
			)
			return Result{Succeeded: true, Duration: dur, Kind: domain.ErrNone, Stage: stage}
		case strings.Contains(stage, "ERROR"):
			r.Logger.Error("rebuild_error_stage",
				zap.String("space", string(name)),
				zap.String("stage", stage),
				zap.Float64("duration_s", dur),
			)
			return Result{Duration: dur, Kind: domain.ErrHTTP, Stage: stage}
		}
	}

	dur := time.Since(start).Seconds()
	r.Logger.Warn("rebuild_unknown_timeout",
		zap.String("space", string(name)),
		zap.Float64("duration_s", dur),
	)
	return Result{Duration: dur, Kind: domain.ErrTimeout}
}

func (r *Rebuilder) restart(ctx context.Context, url string) domain.ErrorKind {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return domain.ErrURLInvalid
	}
	r.auth(req)

	resp, err := r.Client.Do(req)
	if err != nil {
		return probe.Classify(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return domain.ErrHTTP
	}
	return domain.ErrNone
}

func (r *Rebuilder) stage(ctx context.Context, url string) (string, domain.ErrorKind) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.ErrURLInvalid
	}
	r.auth(req)

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", probe.Classify(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return "", domain.ErrHTTP
	}

	var st runtimeStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return "", domain.ErrParse
	}
	return st.Stage, domain.ErrNone
}

func (r *Rebuilder) auth(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+r.Token)
	req.Header.Set("Content-Type", "application/json")
}
