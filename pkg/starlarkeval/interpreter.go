// Package starlarkeval evaluates override scripts in a hermetic Starlark
// environment.  Scripts see only the predeclared values they are given.
package starlarkeval

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Option configures an Interpreter.
type Option func(*Interpreter) *Interpreter

// WithLogger sets the logger that receives script print() output.
func WithLogger(logger zerolog.Logger) Option {
	return func(i *Interpreter) *Interpreter {
		i.logger = logger
		return i
	}
}

// WithMaxExecutionSteps bounds each Exec and Call.  Zero means unlimited.
func WithMaxExecutionSteps(steps uint64) Option {
	return func(i *Interpreter) *Interpreter {
		i.maxSteps = steps
		return i
	}
}

// WithPredeclared makes a value visible to the script under name.
func WithPredeclared(name string, value starlark.Value) Option {
	return func(i *Interpreter) *Interpreter {
		i.predeclared[name] = value
		return i
	}
}

// Interpreter executes a single script and calls the functions it defines.
type Interpreter struct {
	logger   zerolog.Logger
	maxSteps uint64
	// predeclared names visible to the script
	predeclared starlark.StringDict
	// frozen module globals after a successful Exec
	globals starlark.StringDict
}

// NewInterpreter returns an Interpreter with no predeclared values.
func NewInterpreter(options ...Option) *Interpreter {
	i := &Interpreter{
		logger:      zerolog.Nop(),
		predeclared: starlark.StringDict{},
		globals:     starlark.StringDict{},
	}
	for _, opt := range options {
		i = opt(i)
	}
	return i
}

// GetGlobal returns the named module global, or nil.
func (i *Interpreter) GetGlobal(name string) starlark.Value {
	return i.globals[name]
}

// Exec evaluates the script.  On success the module globals are frozen so
// that functions defined by the script may be called concurrently.  A panic
// raised during evaluation is returned as an error.
func (i *Interpreter) Exec(filename string, src io.Reader) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", filename, r)
		}
	}()
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, i.newThread(filename), filename, data, i.predeclared)
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			i.logger.Debug().Str("file", filename).Msg(evalErr.Backtrace())
		}
		return err
	}
	globals.Freeze()
	i.globals = globals
	return nil
}

// Call invokes fn on a fresh thread.  A panic raised while calling is
// returned as an error.
func (i *Interpreter) Call(fn starlark.Callable, args ...starlark.Value) (value starlark.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("%s: panic: %v", fn.Name(), r)
		}
	}()
	return starlark.Call(i.newThread(fn.Name()), fn, starlark.Tuple(args), nil)
}

func (i *Interpreter) newThread(name string) *starlark.Thread {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			i.logger.Debug().Str("thread", name).Msg(msg)
		},
	}
	if i.maxSteps > 0 {
		thread.SetMaxExecutionSteps(i.maxSteps)
	}
	return thread
}
