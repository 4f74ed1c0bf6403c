// Package main starts the inputtap server.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
)

// init pins the main goroutine to the process main thread, which owns the
// UI loop on platforms with main-thread cursor APIs.
func init() {
	runtime.LockOSThread()
}

// main is the entrypoint for the inputtap server.
func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	if err := run(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
