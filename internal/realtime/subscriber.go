package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var (
	// ErrDiagramNotFound is returned when the stream closes before delivering
	// a single event on the very first attempt. EventSource-style transports
	// expose no status code, so immediate closure is the proxy for the
	// resource not existing; an explicit 404 maps here too.
	ErrDiagramNotFound = errors.New("diagram stream not found")

	// ErrRetriesExhausted is returned once the reconnect budget is spent.
	ErrRetriesExhausted = errors.New("reconnect attempts exhausted")
)

type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateOpen
	StateClosed
)

const (
	defaultMaxAttempts   = 5
	defaultReconnectBase = time.Second
	maxReconnectDelay    = 30 * time.Second
)

// Subscriber consumes a diagram's event stream and feeds updates into a
// Reconciler. It owns the connection lifecycle:
// disconnected -> connecting -> open -> closed, with capped exponential
// backoff between reopen attempts and a bounded attempt budget.
type Subscriber struct {
	baseURL string
	token   string
	client  *http.Client
	recon   *Reconciler
	logger  *zap.Logger

	// Overridable before Run; defaults match the editor's behavior.
	MaxAttempts   int
	ReconnectBase time.Duration

	mu         sync.Mutex
	diagramID  string
	state      ConnState
	attempts   int
	everOpened bool
	notFound   bool
}

func NewSubscriber(baseURL, diagramID, token string, recon *Reconciler, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		client:        &http.Client{},
		recon:         recon,
		logger:        logger,
		MaxAttempts:   defaultMaxAttempts,
		ReconnectBase: defaultReconnectBase,
		diagramID:     diagramID,
		state:         StateDisconnected,
	}
}

func (s *Subscriber) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// NotFound reports whether the last run concluded the diagram does not exist.
func (s *Subscriber) NotFound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notFound
}

// SetDiagram switches the subscriber to a new diagram id, resetting the
// retry budget and the not-found conclusion.
func (s *Subscriber) SetDiagram(diagramID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagramID = diagramID
	s.attempts = 0
	s.everOpened = false
	s.notFound = false
	s.state = StateDisconnected
}

// Run blocks consuming the stream until the context is canceled, the retry
// budget is exhausted, or the diagram is concluded missing.
func (s *Subscriber) Run(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.ReconnectBase
	bo.Multiplier = 2
	bo.MaxInterval = maxReconnectDelay
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	for {
		s.setState(StateConnecting)
		gotEvent, err := s.stream(ctx)
		s.setState(StateClosed)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, ErrDiagramNotFound) {
			s.concludeNotFound()
			return ErrDiagramNotFound
		}
		if err != nil {
			s.logger.Warn("stream closed", zap.String("diagram_id", s.currentDiagram()), zap.Error(err))
		}

		s.mu.Lock()
		firstAttempt := !s.everOpened && s.attempts == 0
		if gotEvent {
			s.everOpened = true
		}
		if firstAttempt && !gotEvent {
			s.notFound = true
			s.mu.Unlock()
			return ErrDiagramNotFound
		}
		s.attempts++
		if s.attempts >= s.MaxAttempts {
			s.mu.Unlock()
			return ErrRetriesExhausted
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(bo.NextBackOff()):
		}
	}
}

// stream opens one connection and pumps events until it closes. It reports
// whether at least one event was decoded.
func (s *Subscriber) stream(ctx context.Context) (bool, error) {
	u := fmt.Sprintf("%s/diagrams/%s/stream", s.baseURL, url.PathEscape(s.currentDiagram()))
	if s.token != "" {
		u += "?token=" + url.QueryEscape(s.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, ErrDiagramNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	s.setState(StateOpen)

	gotEvent := false
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, ":") {
			continue // keepalive
		}
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "" {
			continue
		}

		var u Update
		if err := json.Unmarshal([]byte(payload), &u); err != nil {
			s.logger.Warn("malformed stream event", zap.Error(err))
			continue
		}
		gotEvent = true

		switch u.Type {
		case UpdateTypeConnected:
			s.logger.Debug("stream connected", zap.String("diagram_id", u.DiagramID))
		case UpdateTypeUpdate:
			s.recon.Apply(u)
		case UpdateTypeError:
			s.logger.Warn("stream error event", zap.String("message", u.Message))
		}
	}
	return gotEvent, scanner.Err()
}

func (s *Subscriber) setState(state ConnState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Subscriber) currentDiagram() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diagramID
}

func (s *Subscriber) concludeNotFound() {
	s.mu.Lock()
	s.notFound = true
	s.mu.Unlock()
}
