// Package match compiles and evaluates the optional SIP payload filter.
// It is compiled once at construction and never re-parsed on the hot path.
package match

import (
	"fmt"
	"regexp"
)

// Options configures the Engine.
type Options struct {
	Expr   string // extended regex; empty means "accept everything"
	Invert bool   // negate the match verdict
	Case   bool   // case-insensitive matching
}

// Engine evaluates the compiled expression against SIP payloads.
type Engine struct {
	opts Options
	re   *regexp.Regexp
}

// New compiles opts.Expr (if set) and returns the ready-to-use Engine.
// Returns a wrapped error if the expression fails to compile.
func New(opts Options) (*Engine, error) {
	e := &Engine{opts: opts}
	if opts.Expr == "" {
		return e, nil
	}

	expr := opts.Expr
	if opts.Case {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile match expression %q: %w", opts.Expr, err)
	}
	e.re = re
	return e, nil
}

// Check reports whether payload passes the filter: true when no expression
// is configured, otherwise regex match XOR Invert.
func (e *Engine) Check(payload []byte) bool {
	if e.re == nil {
		return true
	}
	matched := e.re.Match(payload)
	return matched != e.opts.Invert
}

// Expr returns the configured expression text, or "" if none.
func (e *Engine) Expr() string {
	return e.opts.Expr
}
