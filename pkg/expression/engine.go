package expression

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
)

// Function is a variadic function callable from expressions
type Function func(params ...interface{}) (interface{}, error)

// DefaultCacheLimit bounds the number of compiled programs kept per engine
const DefaultCacheLimit = 256

type programKey struct {
	source  string
	boolean bool
}

// Engine compiles expr-lang expressions once and caches the programs.
// Variables come from the environment map passed at evaluation time; the
// first environment seen for an expression fixes its variable types.
// At most limit programs are cached; the oldest is evicted first.
type Engine struct {
	mu       sync.RWMutex
	programs map[programKey]*vm.Program
	order    []programKey
	limit    int
	custom   map[string]Function
}

// NewEngine creates a new expression engine with DefaultCacheLimit
func NewEngine() *Engine {
	return NewEngineWithLimit(DefaultCacheLimit)
}

// NewEngineWithLimit creates an engine caching at most limit programs.
// A limit below 1 disables caching.
func NewEngineWithLimit(limit int) *Engine {
	return &Engine{
		programs: make(map[programKey]*vm.Program),
		limit:    limit,
		custom:   make(map[string]Function),
	}
}

// Evaluate runs an expression against env and returns its value
func (e *Engine) Evaluate(source string, env map[string]interface{}) (interface{}, error) {
	program, err := e.program(programKey{source: source}, env)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, env)
}

// EvaluateBool runs an expression that must produce a boolean
func (e *Engine) EvaluateBool(source string, env map[string]interface{}) (bool, error) {
	program, err := e.program(programKey{source: source, boolean: true}, env)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must evaluate to a boolean, got %T", source, out)
	}
	return b, nil
}

// Validate compiles the expression without running it
func (e *Engine) Validate(source string, env map[string]interface{}) error {
	_, err := e.program(programKey{source: source}, env)
	return err
}

// ValidateBool compiles the expression as a boolean condition without running it
func (e *Engine) ValidateBool(source string, env map[string]interface{}) error {
	_, err := e.program(programKey{source: source, boolean: true}, env)
	return err
}

// RegisterFunction adds a custom function. Cached programs are dropped.
func (e *Engine) RegisterFunction(name string, fn Function) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.custom[name] = fn
	e.programs = make(map[programKey]*vm.Program)
	e.order = nil
}

func (e *Engine) program(key programKey, env map[string]interface{}) (*vm.Program, error) {
	e.mu.RLock()
	prog, ok := e.programs[key]
	e.mu.RUnlock()
	if ok {
		return prog, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if prog, ok := e.programs[key]; ok {
		return prog, nil
	}

	options := []expr.Option{expr.Env(env)}
	if key.boolean {
		options = append(options, expr.AsBool())
	}
	for name, fn := range builtins {
		options = append(options, expr.Function(name, fn))
	}
	for name, fn := range e.custom {
		options = append(options, expr.Function(name, fn))
	}

	prog, err := expr.Compile(key.source, options...)
	if err != nil {
		return nil, err
	}
	e.remember(key, prog)
	return prog, nil
}

// remember caches prog, evicting the oldest entries beyond the limit
func (e *Engine) remember(key programKey, prog *vm.Program) {
	if e.limit < 1 {
		return
	}
	for len(e.order) >= e.limit {
		delete(e.programs, e.order[0])
		e.order = e.order[1:]
	}
	e.programs[key] = prog
	e.order = append(e.order, key)
}

var builtins = map[string]func(params ...interface{}) (interface{}, error){
	"UPPER": unaryString("UPPER", func(s string) interface{} { return strings.ToUpper(s) }),
	"LOWER": unaryString("LOWER", func(s string) interface{} { return strings.ToLower(s) }),
	"LEN":   unaryString("LEN", func(s string) interface{} { return len([]rune(s)) }),
	// CONTAINS(text, search) matches case-insensitively
	"CONTAINS": func(params ...interface{}) (interface{}, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("CONTAINS requires 2 arguments (text, search)")
		}
		text, ok1 := params[0].(string)
		search, ok2 := params[1].(string)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("CONTAINS arguments must be strings")
		}
		return strings.Contains(strings.ToLower(text), strings.ToLower(search)), nil
	},
	// DATE parses a dd/mm/yyyy portal date so dates can be compared
	"DATE": func(params ...interface{}) (interface{}, error) {
		s, err := stringArg("DATE", params)
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(constants.DateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("DATE: %q is not a dd/mm/yyyy date", s)
		}
		return t, nil
	},
}

func unaryString(name string, fn func(string) interface{}) func(params ...interface{}) (interface{}, error) {
	return func(params ...interface{}) (interface{}, error) {
		s, err := stringArg(name, params)
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}

func stringArg(name string, params []interface{}) (string, error) {
	if len(params) != 1 {
		return "", fmt.Errorf("%s requires 1 argument", name)
	}
	s, ok := params[0].(string)
	if !ok {
		return "", fmt.Errorf("%s argument must be a string", name)
	}
	return s, nil
}
