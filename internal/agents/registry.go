package agents

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	dErrors "trustlens/pkg/domain-errors"

	"trustlens/internal/firm"
)

const (
	defaultAgentTimeout = 30 * time.Second
	firmConcurrency     = 4
)

// Registry holds the registered agents and runs firm verifications across
// them. Registration happens once at composition time; verification runs
// concurrently afterwards.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
	order  []string

	logger       *slog.Logger
	agentTimeout time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithAgentTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.agentTimeout = d
	}
}

// NewRegistry creates an empty agent registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		agents:       make(map[string]Agent),
		logger:       slog.Default(),
		agentTimeout: defaultAgentTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds an agent under the given name. Duplicate names are rejected.
func (r *Registry) Register(name string, agent Agent) error {
	if name == "" || agent == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "agent name and implementation are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[name]; exists {
		return dErrors.New(dErrors.CodeConflict, fmt.Sprintf("agent %q already registered", name))
	}
	r.agents[name] = agent
	r.order = append(r.order, name)
	return nil
}

// Agent returns the named agent.
func (r *Registry) Agent(name string) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[name]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("agent %q not registered", name))
	}
	return agent, nil
}

// Names returns the registered agent names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// VerifyFirm runs every registered agent against the firm concurrently and
// returns one outcome per agent. A failing or panicking agent marks only its
// own slot FAILED; the map is complete before it is returned.
func (r *Registry) VerifyFirm(ctx context.Context, f firm.Firm) map[string]Outcome {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	agents := make(map[string]Agent, len(r.agents))
	for name, agent := range r.agents {
		agents[name] = agent
	}
	r.mu.RUnlock()

	outcomes := make(map[string]Outcome, len(names))
	var outcomeMu sync.Mutex

	g := new(errgroup.Group)
	for _, name := range names {
		agent := agents[name]
		g.Go(func() error {
			outcome := r.runAgent(ctx, agent, f)
			outcomeMu.Lock()
			outcomes[name] = outcome
			outcomeMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// runAgent executes one agent under its own timeout, converting errors and
// panics into a failure marker.
func (r *Registry) runAgent(ctx context.Context, agent Agent, f firm.Firm) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorContext(ctx, "agent panicked",
				"agent", agent.Name(),
				"firm_id", f.ID,
				"panic", rec,
			)
			outcome = Outcome{Failed: true, FailureMessage: fmt.Sprintf("agent panicked: %v", rec)}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.agentTimeout)
	defer cancel()

	ev, err := agent.Collect(ctx, f)
	if err != nil {
		r.logger.WarnContext(ctx, "agent failed",
			"agent", agent.Name(),
			"firm_id", f.ID,
			"error", err,
		)
		return Outcome{Failed: true, FailureMessage: err.Error()}
	}
	return Outcome{Evidence: &ev}
}

// VerifyFirms verifies a batch of firms, each with the full agent set.
// Firms run concurrently with no ordering guarantee between them, but the
// returned slice is aligned to the input order and always input-length.
func (r *Registry) VerifyFirms(ctx context.Context, firms []firm.Firm) []FirmResult {
	results := make([]FirmResult, len(firms))

	g := new(errgroup.Group)
	g.SetLimit(firmConcurrency)

	for i, f := range firms {
		g.Go(func() error {
			results[i] = FirmResult{Firm: f, Outcomes: r.VerifyFirm(ctx, f)}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
