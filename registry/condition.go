package registry

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/modelpath-ai/sdk/plugin"
)

// conditionCache compiles and caches CEL activation conditions. A condition
// sees the current record as the variable `record` and must evaluate to a
// boolean. Expressions are compiled once per distinct source text; the cache
// lives for the registry's lifetime, which is fine because the condition
// vocabulary is small and plugin-authored.
type conditionCache struct {
	mu       sync.Mutex
	env      *cel.Env
	programs map[string]cel.Program
}

func newConditionCache() *conditionCache {
	return &conditionCache{
		programs: make(map[string]cel.Program),
	}
}

// eval evaluates the expression against the record. Compile and runtime
// errors both surface to the caller; a misconfigured condition should be
// visible, not silently treated as true or false.
func (c *conditionCache) eval(expr string, rec plugin.Record) (bool, error) {
	prg, err := c.program(expr)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(map[string]any{
		"record": map[string]any(rec),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", expr, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not evaluate to a boolean", expr)
	}
	return b, nil
}

func (c *conditionCache) program(expr string) (cel.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prg, ok := c.programs[expr]; ok {
		return prg, nil
	}

	if c.env == nil {
		env, err := cel.NewEnv(
			cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
		)
		if err != nil {
			return nil, fmt.Errorf("create condition environment: %w", err)
		}
		c.env = env
	}

	ast, iss := c.env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, iss.Err())
	}

	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build program for %q: %w", expr, err)
	}

	c.programs[expr] = prg
	return prg, nil
}
