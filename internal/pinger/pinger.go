package pinger

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sessionkeeper/internal/credential"
)

// CookieName is the session cookie the remote service expects.
const CookieName = "iksm_session"

// Outcome is a response that made it back, whatever its status.
type Outcome struct {
	StatusCode int
	Status     string
	LatencyMS  float64
}

type Pinger struct {
	Logger *zap.Logger
	Client *http.Client
	URL    string
	// Verbatim logs the token as sent instead of masking it.
	Verbatim bool
}

func NewPinger(logger *zap.Logger, url string, timeout time.Duration) *Pinger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pinger{
		Logger: logger,
		Client: &http.Client{Timeout: timeout},
		URL:    url,
	}
}

// Ping sends one GET carrying token as the session cookie. Any HTTP response
// is a success; only transport failures return an error, always a
// *TransportError.
func (p *Pinger) Ping(ctx context.Context, token string) (Outcome, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return Outcome{}, p.fail(&TransportError{Reason: ReasonTransport, Err: err}, start)
	}
	req.Header.Set("Cookie", CookieName+"="+token)

	resp, err := p.Client.Do(req)
	if err != nil {
		return Outcome{}, p.fail(&TransportError{Reason: Classify(err), Err: err}, start)
	}
	defer resp.Body.Close()

	out := Outcome{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		LatencyMS:  time.Since(start).Seconds() * 1000,
	}
	p.Logger.Info("ping_sent",
		zap.String("url", p.URL),
		zap.String("token", p.render(token)),
		zap.Int("status", out.StatusCode),
		zap.Float64("latency_ms", out.LatencyMS),
	)
	return out, nil
}

func (p *Pinger) fail(terr *TransportError, start time.Time) error {
	p.Logger.Error("failed to send ping, retrying next iteration",
		zap.String("url", p.URL),
		zap.String("reason", terr.Reason),
		zap.Float64("latency_ms", time.Since(start).Seconds()*1000),
		zap.Error(terr.Err),
	)
	return terr
}

func (p *Pinger) render(token string) string {
	if p.Verbatim {
		return token
	}
	return credential.Mask(token)
}
