// Package invariant reports broken internal consistency checks.
//
// A violation means the engine itself is wrong, so it is raised as a panic
// carrying a *Violation rather than returned as an error.
package invariant

import (
	"fmt"
	"runtime/debug"
)

// Violation describes a failed check together with the stack at the point of
// failure.
type Violation struct {
	Expr    string
	Message string
	Stack   []byte
}

func (v *Violation) Error() string {
	return fmt.Sprintf("invariant %s violated: %s\nstacktrace:\n%s", v.Expr, v.Message, v.Stack)
}

// Check panics with a *Violation when cond is false.
func Check(cond bool, expr string, format string, args ...any) {
	if cond {
		return
	}
	Violated(expr, format, args...)
}

// Violated unconditionally raises a violation.
func Violated(expr string, format string, args ...any) {
	v := &Violation{
		Expr:    expr,
		Message: fmt.Sprintf(format, args...),
		Stack:   debug.Stack(),
	}
	panic(v)
}

// Recover converts a recovered panic value back into a *Violation. Other
// panics are re-raised.
func Recover(r any) *Violation {
	if r == nil {
		return nil
	}
	if v, ok := r.(*Violation); ok {
		return v
	}
	panic(r)
}
