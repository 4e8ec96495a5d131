// Package engine provides the Lisp scripting front end for berth.
// It wraps zygomys in a sandboxed environment and drives a building berth
// from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/berth/pkg/berth"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
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

// Engine wraps the zygomys interpreter for berth scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh berth for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout  time.Duration
	newBerth func() (*berth.Berth, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds every evaluation. Non-positive values keep
// DefaultEvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithBerthFactory sets how the berth a script builds on is created.
func WithBerthFactory(fn func() (*berth.Berth, error)) Option {
	return func(e *Engine) { e.newBerth = fn }
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout:  DefaultEvalTimeout,
		newBerth: func() (*berth.Berth, error) { return berth.New(), nil },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs source against a new building berth and returns it.
//
// Return semantics:
//   - On success: returns berth + nil errors + nil error
//   - On parse/eval failure: returns nil berth + eval errors + nil error
//   - On fatal failure (timeout, panic, berth setup): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*berth.Berth, []EvalError, error) {
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

		b, evalErrs, err := e.evaluate(source)
		ch <- evalResult{berth: b, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*berth.Berth, []EvalError, error) {
	b, err := e.newBerth()
	if err != nil {
		return nil, nil, fmt.Errorf("engine: create berth: %w", err)
	}

	// Empty source is a valid program that builds nothing.
	if strings.TrimSpace(source) == "" {
		return b, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, b)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return b, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
