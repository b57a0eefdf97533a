package common

import (
	"fmt"
	"os"
	"runtime"

	"github.com/ternarybob/arbor"
)

// PanicError carries a recovered panic value and the stack it was raised on.
type PanicError struct {
	Value interface{}
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RecoverPanic converts a recovered value into a *PanicError. It returns nil
// when r is nil. Call it as the argument of recover() in a deferred func.
func RecoverPanic(r interface{}) *PanicError {
	if r == nil {
		return nil
	}
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return &PanicError{Value: r, Stack: string(buf[:n])}
}

// SafeGo runs fn in a goroutine with panic recovery.
// Panics are logged but don't crash the service.
func SafeGo(logger arbor.ILogger, name string, fn func()) {
	go func() {
		defer func() {
			if p := RecoverPanic(recover()); p != nil {
				if logger != nil {
					logger.Error().
						Str("goroutine", name).
						Str("panic", fmt.Sprintf("%v", p.Value)).
						Str("stack", p.Stack).
						Msg("Recovered from panic in goroutine")
				} else {
					fmt.Fprintf(os.Stderr, "PANIC in goroutine %s: %v\n%s\n", name, p.Value, p.Stack)
				}
			}
		}()

		fn()
	}()
}
