package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu        sync.Mutex
	crashFinalizer func()
)

// SetCrashFinalizer registers the cleanup run before a crash report is printed
// The terminal adapter registers its Fini here so the shell is usable after a panic
func SetCrashFinalizer(fn func()) {
	crashMu.Lock()
	crashFinalizer = fn
	crashMu.Unlock()
}

// HandleCrash restores the terminal, prints the panic with its stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	fin := crashFinalizer
	crashFinalizer = nil
	crashMu.Unlock()

	if fin != nil {
		fin()
	}

	// \r\n keeps the trace readable if the terminal is still in raw mode
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mRALLY CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword so a crash never leaves the terminal in raw mode
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
