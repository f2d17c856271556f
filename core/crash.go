// Package core holds process-wide goroutine crash handling
package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu   sync.Mutex
	crashHook func()
	crashOut  io.Writer = os.Stderr
	exit                = os.Exit
)

// SetCrashHook registers cleanup run before a crash report, e.g. restoring the terminal
// A nil hook clears it
func SetCrashHook(hook func()) {
	crashMu.Lock()
	crashHook = hook
	crashMu.Unlock()
}

// HandleCrash runs the crash hook, prints the panic value and stack, then exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	hook := crashHook
	out := crashOut
	crashMu.Unlock()

	if hook != nil {
		hook()
	}
	fmt.Fprintf(out, "\nCRASH DETECTED: %v\n", r)
	fmt.Fprintf(out, "Stack Trace:\n%s\n", debug.Stack())
	exit(1)
}

// Go runs fn in a new goroutine with panic recovery through HandleCrash
// Use instead of the go keyword for long-lived loops so the host terminal is restored
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
