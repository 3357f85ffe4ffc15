package standings

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/turfbook/live-scoring/internal/domain/match"
	"github.com/turfbook/live-scoring/internal/platform/logging"
	"github.com/turfbook/live-scoring/internal/platform/resilience"
)

// Publisher posts completed match results to the tournament service webhook
// so standings, brackets and qualification move without manual entry. The
// engine never reads anything back: propagation is one-way and best-effort.
type Publisher struct {
	client         *fasthttp.Client
	timeout        time.Duration
	webhookURL     string
	token          string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

type PublisherConfig struct {
	WebhookURL     string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

func NewPublisher(cfg PublisherConfig, logger *logging.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Publisher{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		timeout:        timeout,
		webhookURL:     strings.TrimSpace(cfg.WebhookURL),
		token:          strings.TrimSpace(cfg.Token),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type resultPayload struct {
	MatchID      string         `json:"match_id"`
	Sport        string         `json:"sport"`
	Team1ID      string         `json:"team1_id"`
	Team2ID      string         `json:"team2_id"`
	WinnerTeamID string         `json:"winner_team_id,omitempty"`
	Method       string         `json:"method"`
	Margin       string         `json:"margin,omitempty"`
	Summary      string         `json:"summary"`
	Scores       map[string]int `json:"scores,omitempty"`
	CompletedAt  time.Time      `json:"completed_at"`
}

func (p *Publisher) MatchCompleted(ctx context.Context, m *match.Match) error {
	if m == nil || m.Result == nil {
		return crerr.New("match result is required")
	}
	webhookURL, err := validateWebhookURL(p.webhookURL)
	if err != nil {
		return crerr.Wrap(err, "invalid STANDINGS_WEBHOOK_URL")
	}

	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "standings circuit breaker rejected publish",
				"match_id", m.ID, "state", p.breaker.State())
			return fmt.Errorf("standings webhook is temporarily unavailable: %w", err)
		}
	}

	payload := resultPayload{
		MatchID:      m.ID,
		Sport:        m.Sport,
		Team1ID:      m.Team1.ID,
		Team2ID:      m.Team2.ID,
		WinnerTeamID: m.Result.WinnerTeamID,
		Method:       m.Result.Method,
		Margin:       m.Result.Margin,
		Summary:      m.Result.Summary,
		CompletedAt:  m.UpdatedAt,
	}
	if m.Football != nil {
		payload.Scores = m.Football.Scores
	}
	if m.Cricket != nil {
		payload.Scores = map[string]int{
			m.Cricket.First.BattingTeamID:  m.Cricket.First.Runs,
			m.Cricket.Second.BattingTeamID: m.Cricket.Second.Runs,
		}
	}

	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		p.recordFailure()
		return crerr.Wrap(err, "marshal result payload")
	}
	body.Set(encoded)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("standings.webhook_url", webhookURL),
			attribute.String("standings.match_id", m.ID),
			attribute.String("standings.method", m.Result.Method),
		)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(webhookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-Idempotency-Key", "match-completed-"+m.ID)
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	req.SetBody(body.B)

	if err := p.client.DoTimeout(req, resp, p.timeout); err != nil {
		p.recordFailure()
		return crerr.Wrap(err, "publish match result")
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		p.recordFailure()
		preview := resp.Body()
		if len(preview) > 4096 {
			preview = preview[:4096]
		}
		return crerr.Newf("publish match result status=%d body=%s", status, strings.TrimSpace(string(preview)))
	}

	p.recordSuccess()
	p.logger.InfoContext(ctx, "match result propagated",
		"match_id", m.ID, "method", m.Result.Method, "summary", m.Result.Summary)
	return nil
}

func (p *Publisher) recordFailure() {
	if p.circuitEnabled {
		p.breaker.RecordFailure()
	}
}

func (p *Publisher) recordSuccess() {
	if p.circuitEnabled {
		p.breaker.RecordSuccess()
	}
}

func validateWebhookURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme %q", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return candidate, nil
}
