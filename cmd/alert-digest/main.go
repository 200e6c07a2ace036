// Package main is the entry point for the alert-digest server.
package main

import (
	"os"

	"github.com/donaldgifford/alert-digest/cmd/alert-digest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
