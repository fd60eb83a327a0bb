package main

import (
	"os"

	"github.com/wonny/weekday-effect/cmd/weekday/commands"
)

// main is the entry point for the weekday CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/weekday [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
