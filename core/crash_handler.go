package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// crashHandler receives the recovered value of a panicking engine goroutine
var crashHandler atomic.Pointer[func(r any)]

// SetCrashHandler installs the handler used by Go for recovered panics
// Passing nil restores the default (stack trace to stderr, exit 1)
func SetCrashHandler(fn func(r any)) {
	if fn == nil {
		crashHandler.Store(nil)
		return
	}
	crashHandler.Store(&fn)
}

// HandleCrash dispatches a recovered panic to the installed handler
func HandleCrash(r any) {
	if r == nil {
		return
	}
	if h := crashHandler.Load(); h != nil {
		(*h)(r)
		return
	}

	fmt.Fprintf(os.Stderr, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword for engine-owned goroutines
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
