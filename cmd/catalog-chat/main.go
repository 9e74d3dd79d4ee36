// Package main provides the interactive catalog chat entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/cmd/catalog-chat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
