package ranking

import (
	"fmt"
	"math"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine compiles and caches expr programs over a numeric environment.
type Engine struct {
	programCache map[string]*vm.Program
	functions    map[string]func(params ...interface{}) (interface{}, error)
	mu           sync.RWMutex
}

// NewEngine creates an engine preloaded with the numeric helper functions.
func NewEngine() *Engine {
	e := &Engine{
		programCache: make(map[string]*vm.Program),
		functions:    make(map[string]func(params ...interface{}) (interface{}, error)),
	}
	e.functions["ABS"] = unary("ABS", math.Abs)
	e.functions["LOG10"] = unary("LOG10", func(v float64) float64 {
		if v <= 0 {
			return 0
		}
		return math.Log10(v)
	})
	e.functions["SIGN"] = unary("SIGN", func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	})
	e.functions["MAX"] = binary("MAX", math.Max)
	e.functions["MIN"] = binary("MIN", math.Min)
	return e
}

// Evaluate compiles (if needed) and runs an expression against the given environment
func (e *Engine) Evaluate(expression string, env map[string]interface{}) (interface{}, error) {
	program, err := e.getProgram(expression, env)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, env)
}

func (e *Engine) getProgram(expression string, env map[string]interface{}) (*vm.Program, error) {
	e.mu.RLock()
	if prog, ok := e.programCache[expression]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if prog, ok := e.programCache[expression]; ok {
		return prog, nil
	}

	options := []expr.Option{expr.Env(env)}
	for name, fn := range e.functions {
		options = append(options, expr.Function(name, fn))
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}

	e.programCache[expression] = program
	return program, nil
}

func unary(name string, fn func(float64) float64) func(params ...interface{}) (interface{}, error) {
	return func(params ...interface{}) (interface{}, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s requires 1 argument", name)
		}
		v, err := toFloat(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s argument must be a number", name)
		}
		return fn(v), nil
	}
}

func binary(name string, fn func(a, b float64) float64) func(params ...interface{}) (interface{}, error) {
	return func(params ...interface{}) (interface{}, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("%s requires 2 arguments", name)
		}
		a, err := toFloat(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s arg 1 must be a number", name)
		}
		b, err := toFloat(params[1])
		if err != nil {
			return nil, fmt.Errorf("%s arg 2 must be a number", name)
		}
		return fn(a, b), nil
	}
}

func toFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case uint:
		return float64(val), nil
	}
	return 0, fmt.Errorf("cannot convert %T to float", v)
}
