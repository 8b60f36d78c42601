package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhezzma/hf-spaces-monitor/internal/domain"
)

// Result is the outcome of a single liveness probe.
type Result struct {
	Succeeded bool
	Duration  float64 // seconds
	Kind      domain.ErrorKind
	Status    int // HTTP status when a response arrived; 0 otherwise
}

// SpaceURL builds the public endpoint for a space. Hugging Face flattens
// owner and space name into one hostname label.
func SpaceURL(owner string, name domain.SpaceName) string {
	return fmt.Sprintf("https://%s-%s.hf.space", owner, name)
}

// Prober performs one bounded-time GET against a space endpoint. It never
// retries; recovery is the rebuild driver's job.
type Prober struct {
	Client *http.Client
	Logger *zap.Logger
}

func NewProber(logger *zap.Logger, timeout time.Duration) *Prober {
	return &Prober{
		Client: &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

// Spaces behind bot protection answer real browsers; plain Go-http-client
// requests can get rejected, so the probe sends a browser-like header set.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9,zh-CN;q=0.8",
	"Cache-Control":   "no-cache",
}

// Check probes rawURL once. An unusable hostname fails fast with
// url_invalid before any request is made.
func (p *Prober) Check(ctx context.Context, rawURL string) Result {
	u, err := url.Parse(rawURL)
	if err != nil || !validHostname(u.Hostname()) {
		p.Logger.Warn("probe_url_invalid", zap.String("url", rawURL))
		return Result{Kind: domain.ErrURLInvalid}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		p.Logger.Warn("probe_url_invalid", zap.String("url", rawURL), zap.Error(err))
		return Result{Kind: domain.ErrURLInvalid}
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := p.Client.Do(req)
	dur := time.Since(start).Seconds()
	if err != nil {
		kind := Classify(err)
		p.Logger.Error("probe_failed",
			zap.String("url", rawURL),
			zap.Float64("duration_s", dur),
			zap.String("error_kind", string(kind)),
			zap.Error(err),
		)
		return Result{Duration: dur, Kind: kind}
	}
	defer resp.Body.Close()

	// redirects are followed by the client, so 3xx here means a
	// redirect-free affirmative answer (e.g. 304)
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		p.Logger.Info("probe_ok",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
			zap.Float64("duration_s", dur),
		)
		return Result{Succeeded: true, Duration: dur, Kind: domain.ErrNone, Status: resp.StatusCode}
	}

	p.Logger.Error("probe_bad_status",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Float64("duration_s", dur),
	)
	return Result{Duration: dur, Kind: domain.ErrHTTP, Status: resp.StatusCode}
}

// Classify maps a transport error to an ErrorKind. Shared with the rebuild
// driver, whose API requests fail the same ways.
func Classify(err error) domain.ErrorKind {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.ErrTimeout
	}
	// resolver failures ("lookup x: no such host") mean the name never
	// turned into an address, the same family as a label-parse failure
	var de *net.DNSError
	if errors.As(err, &de) {
		return domain.ErrParse
	}
	msg := err.Error()
	if strings.Contains(msg, "parse") || strings.Contains(msg, "invalid") {
		return domain.ErrParse
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return domain.ErrConnection
	}
	return domain.ErrUnknown
}

// validHostname applies the DNS limits the hosting scheme can violate when
// owner and name are pathological: 253 chars overall, labels in (0, 63],
// charset [A-Za-z0-9.-].
func validHostname(host string) bool {
	if host == "" || len(host) > 253 {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
	}
	for _, r := range host {
		switch {
		case r == '-' || r == '.':
		case '0' <= r && r <= '9':
		case 'a' <= r && r <= 'z':
		case 'A' <= r && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
