// Package health exposes Kubernetes-style liveness and readiness probes.
//
// Probes are evaluated on a shared ticker. A probe flips to unhealthy only
// after failing failureThreshold consecutive runs and recovers after
// successThreshold consecutive passes, so a single slow run does not flap
// the pod out of rotation.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc reports the health of one component. Nil means healthy.
type CheckFunc func(ctx context.Context) error

const (
	failureThreshold = 3
	successThreshold = 1
)

type kind int

const (
	liveness kind = iota
	readiness
)

// probe is one registered check plus its observed state. State is guarded
// by mu: the run loop writes it, HTTP handlers read it.
type probe struct {
	name    string
	kind    kind
	timeout time.Duration
	fn      CheckFunc

	mu      sync.Mutex
	fails   int
	oks     int
	healthy bool
	lastErr error
}

func (p *probe) observe(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastErr = err
	if err != nil {
		p.oks = 0
		if p.fails++; p.fails >= failureThreshold {
			p.healthy = false
		}
		return
	}
	p.fails = 0
	if p.oks++; p.oks >= successThreshold {
		p.healthy = true
	}
}

func (p *probe) status() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.healthy, p.lastErr
}

func (p *probe) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	p.observe(p.fn(ctx))
}

// Service runs registered probes and serves probe endpoints.
type Service struct {
	ready atomic.Bool

	mu     sync.Mutex
	probes []*probe
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a Service in the not-ready state. Call SetReady(true) once
// initialization is complete.
func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a probe that decides whether the process
// should be restarted.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.add(&probe{name: name, kind: liveness, timeout: timeout, fn: fn, healthy: true})
}

// AddReadinessCheck registers a probe that decides whether the process
// should receive traffic.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.add(&probe{name: name, kind: readiness, timeout: timeout, fn: fn, healthy: true})
}

func (s *Service) add(p *probe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes = append(s.probes, p)
}

// Start evaluates every registered probe once immediately, then again at
// each interval, until the context is cancelled or Stop is called.
// Register all probes before calling Start.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	probes := make([]*probe, len(s.probes))
	copy(probes, s.probes)
	s.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			for _, p := range probes {
				p.run(ctx)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the probe loop and waits for it to exit. Safe to call more
// than once.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// SetReady flips the manual readiness gate. Set false during graceful
// shutdown to drain traffic before the listener closes.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the manual gate is open and every readiness
// probe is passing.
func (s *Service) IsReady() bool {
	return s.ready.Load() && len(s.failing(readiness)) == 0
}

// LiveEndpoint serves /livez: 200 when all liveness probes pass, 503 with
// per-probe failure details otherwise.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, s.failing(liveness))
}

// ReadyEndpoint serves /readyz: 200 when the service is marked ready and
// all readiness probes pass, 503 with details otherwise.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failures := s.failing(readiness)
	if !s.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeStatus(w, failures)
}

// failing returns name -> failure message for unhealthy probes of kind k.
func (s *Service) failing(k kind) map[string]string {
	s.mu.Lock()
	probes := make([]*probe, len(s.probes))
	copy(probes, s.probes)
	s.mu.Unlock()

	failures := make(map[string]string)
	for _, p := range probes {
		if p.kind != k {
			continue
		}
		healthy, err := p.status()
		if healthy {
			continue
		}
		if err != nil {
			failures[p.name] = err.Error()
		} else {
			failures[p.name] = "check is unhealthy"
		}
	}
	return failures
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func writeStatus(w http.ResponseWriter, failures map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	code := http.StatusOK
	if len(failures) > 0 {
		resp = statusResponse{Status: "unhealthy", Checks: failures}
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
