package vision

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// State is the lifecycle state of a Graph.
type State int

const (
	StateCreated State = iota // built, never started
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Errors surfaced to the boundary layer as status codes. ErrBadFrame
// wraps the validation detail so callers can classify without
// re-validating.
var (
	ErrNotRunning = errors.New("graph is not running")
	ErrRunning    = errors.New("graph is already running")
	ErrBadFrame   = errors.New("invalid frame")
)

// Graph is a session: an ordered stage pipeline plus lifecycle state.
// All methods are safe for concurrent use; frames are processed one at a
// time under the session lock.
type Graph struct {
	mu     sync.Mutex
	stages []Stage
	state  State
	frames uint64
	log    zerolog.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the engine logger. The default discards everything;
// the boundary layer never logs (hosts get status codes only), but an
// embedding Go host may want the engine's view.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Graph) { g.log = log }
}

// NewGraph builds a session from an ordered stage list.
func NewGraph(stages []Stage, opts ...Option) *Graph {
	g := &Graph{
		stages: stages,
		state:  StateCreated,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current lifecycle state.
func (g *Graph) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// StageCount returns the number of stages in the pipeline.
func (g *Graph) StageCount() int {
	return len(g.stages)
}

// Start moves the session into the running state. Starting a running
// session is an error; a stopped session may be restarted.
func (g *Graph) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateRunning {
		return ErrRunning
	}
	g.state = StateRunning
	g.log.Info().Int("stages", len(g.stages)).Msg("graph started")
	return nil
}

// Stop moves a running session into the stopped state.
func (g *Graph) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateRunning {
		return ErrNotRunning
	}
	g.state = StateStopped
	g.log.Info().Uint64("frames", g.frames).Msg("graph stopped")
	return nil
}

// Process pushes one frame through every stage in order. The frame is
// mutated in place; the caller reads results (pixels, detections) from
// it afterwards.
func (g *Graph) Process(f *Frame) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateRunning {
		return ErrNotRunning
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadFrame, err)
	}

	for _, s := range g.stages {
		if err := s.Process(f); err != nil {
			return fmt.Errorf("stage %s: %w", s.Name(), err)
		}
	}

	g.frames++
	g.log.Debug().
		Uint64("frame", g.frames).
		Int("width", f.Width).
		Int("height", f.Height).
		Stringer("format", f.Format).
		Msg("frame processed")
	return nil
}
