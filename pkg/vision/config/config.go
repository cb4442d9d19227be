// Package config evaluates graph configuration text into an ordered
// stage list. The config language is a small Lisp evaluated in a
// sandboxed zygomys environment:
//
//	(pipeline
//	  (grayscale)
//	  (box-blur :radius 2)
//	  (threshold :level 96))
//
// Each evaluation runs in a fresh sandbox for determinism; user config
// cannot reach the filesystem or syscalls except through the builtins
// that explicitly load resources (detect-faces reads its cascade file).
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/crft3d/crft/pkg/vision"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a bad stage parameter.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates config text into stage lists. It is safe for
// concurrent use; each call to Evaluate creates a fresh sandboxed
// environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// evalResult carries one evaluation's outcome off its goroutine.
type evalResult struct {
	stages []vision.Stage
	errors []EvalError
	err    error
}

// Evaluate takes config source and produces the ordered stage list.
//
// Return semantics:
//   - On success: stages + nil errors + nil error
//   - On parse/eval failure: nil stages + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
//
// Evaluation runs on its own goroutine under EvalTimeout. A result that
// arrives after a newer Evaluate call has started is discarded as stale.
func (e *Engine) Evaluate(source string) ([]vision.Stage, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		stages, evalErrs, err := e.evaluate(source)
		ch <- evalResult{stages: stages, errors: evalErrs, err: err}
	}()

	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		stale := gen != e.generation
		e.mu.Unlock()
		if stale {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.stages, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) ([]vision.Stage, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: "empty config: expected a (pipeline ...) form"}}, nil
	}

	// Sandbox mode prevents user config from accessing the filesystem
	// or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := &build{}
	registerBuiltins(env, b)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygoError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygoError(err), nil
	}

	if !b.defined {
		return nil, []EvalError{{Message: "config does not define a pipeline"}}, nil
	}
	return b.stages, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygoError converts a zygomys error into one or more EvalError
// values, extracting line numbers where the message carries them.
func parseZygoError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
