package main

import (
	"fmt"
	"os"
)

// This is the entry point for the voicewithin daemon and its helper commands.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "voicewithin: %v\n", err)
		os.Exit(1)
	}
}
