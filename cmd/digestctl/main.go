// Package main is the entry point for the digestctl CLI client.
package main

import (
	"github.com/donaldgifford/alert-digest/cmd/digestctl/cmd"
)

func main() {
	cmd.Execute()
}
