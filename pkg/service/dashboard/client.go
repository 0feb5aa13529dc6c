package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
	"github.com/secmon-lab/medmatch/pkg/utils/safe"
	"github.com/sony/gobreaker"
)

const (
	// DefaultEndpoint is where the companion dashboard service listens by default
	DefaultEndpoint = "http://localhost:8000/update-dashboard"
	DefaultTimeout  = 5 * time.Second

	// responses larger than this are rejected as malformed
	maxBodyBytes = 64 * 1024
)

// Client fetches the remote dashboard summary. Repeated failures open a
// circuit breaker so an absent service is not hammered on every page view.
type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

var _ interfaces.DashboardClient = &Client{}

type Option func(*settings)

type settings struct {
	httpClient   *http.Client
	timeout      time.Duration
	maxFailures  uint32
	openDuration time.Duration
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.httpClient = c
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithBreaker sets how many consecutive failures open the breaker and how
// long it stays open
func WithBreaker(maxFailures uint32, openDuration time.Duration) Option {
	return func(s *settings) {
		s.maxFailures = maxFailures
		s.openDuration = openDuration
	}
}

func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, goerr.New("dashboard endpoint is required")
	}

	s := &settings{
		timeout:      DefaultTimeout,
		maxFailures:  3,
		openDuration: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: s.timeout}
	}

	maxFailures := s.maxFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dashboard",
		MaxRequests: 1,
		Timeout:     s.openDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logging.Default().Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &Client{
		endpoint:   endpoint,
		httpClient: s.httpClient,
		breaker:    breaker,
	}, nil
}

// Fetch performs a single GET. Every failure is reported as ErrServiceUnavailable.
func (c *Client) Fetch(ctx context.Context) (*model.RemoteDashboard, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, goerr.Wrap(interfaces.ErrServiceUnavailable, "dashboard circuit is open",
				goerr.V("endpoint", c.endpoint))
		}
		return nil, err
	}
	return result.(*model.RemoteDashboard), nil
}

func (c *Client) fetch(ctx context.Context) (*model.RemoteDashboard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create dashboard request", goerr.V("endpoint", c.endpoint))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(interfaces.ErrServiceUnavailable, err.Error(), goerr.V("endpoint", c.endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.Wrap(interfaces.ErrServiceUnavailable, "dashboard returned non-success status",
			goerr.V("endpoint", c.endpoint),
			goerr.V("status", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, goerr.Wrap(interfaces.ErrServiceUnavailable, err.Error(), goerr.V("endpoint", c.endpoint))
	}
	if len(body) > maxBodyBytes {
		return nil, goerr.Wrap(interfaces.ErrServiceUnavailable, "dashboard response too large", goerr.V("endpoint", c.endpoint))
	}

	var raw wireDashboard
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, goerr.Wrap(interfaces.ErrServiceUnavailable, "malformed dashboard response",
			goerr.V("endpoint", c.endpoint),
			goerr.V("cause", err.Error()))
	}
	if raw.ActivePrescriptions == nil || raw.TodaysMedication == nil {
		return nil, goerr.Wrap(interfaces.ErrServiceUnavailable, "dashboard response lacks counters",
			goerr.V("endpoint", c.endpoint),
			goerr.V("body", string(body)))
	}

	out := &model.RemoteDashboard{
		ActivePrescriptions: *raw.ActivePrescriptions,
		TodaysMedication:    *raw.TodaysMedication,
	}
	if raw.UserID != nil {
		out.UserID = *raw.UserID
	}
	if raw.Message != nil {
		out.Message = *raw.Message
	}
	return out, nil
}

// wireDashboard tells absent counters apart from zero ones
type wireDashboard struct {
	UserID              *int    `json:"user_id"`
	ActivePrescriptions *int    `json:"active_prescriptions"`
	TodaysMedication    *int    `json:"todays_medication"`
	Message             *string `json:"message"`
}
