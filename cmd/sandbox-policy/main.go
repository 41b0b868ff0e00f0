// Command sandbox-policy inspects sandbox policy files.
//
// Usage:
//
//	# Validate policy files
//	sandbox-policy check policy.yaml other.yaml
//
//	# List feature flags and their defaults
//	sandbox-policy flags
//
//	# List violation codes
//	sandbox-policy codes
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
