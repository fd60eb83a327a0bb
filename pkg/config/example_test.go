package config_test

import (
	"fmt"

	"github.com/wonny/weekday-effect/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	// Access configuration values
	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Date order: %s\n", cfg.Analysis.DateOrder)
	fmt.Printf("Tiers: %v\n", cfg.Analysis.TierSizes)
	fmt.Printf("Candidates: %v\n", cfg.InputCandidates())
}
