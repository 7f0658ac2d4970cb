package forward

import (
	"fmt"
	"runtime"
)

// Eval runs f and converts an engine panic into an error. Operator methods
// panic on shape mismatches, bad indices and mixed factories; Eval is for
// callers that prefer an explicit error. Runtime errors are re-panicked.
func Eval[T any](f func() T) (result T, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(runtime.Error); ok {
			panic(r)
		}
		if e, ok := r.(error); ok {
			err = e
			return
		}
		err = fmt.Errorf("forward: %v", r)
	}()
	return f(), nil
}
