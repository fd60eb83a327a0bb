package s0_data

import (
	"errors"
	"fmt"
	"os"

	"github.com/wonny/weekday-effect/internal/contracts"
)

// Discover resolves the input table path.
// An explicit path must exist; otherwise the first existing candidate wins.
func Discover(explicit string, candidates []string) (string, error) {
	if explicit != "" {
		if err := fileExists(explicit); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", &contracts.MissingInputError{Candidates: []string{explicit}}
			}
			return "", fmt.Errorf("stat %s: %w", explicit, err)
		}
		return explicit, nil
	}

	for _, path := range candidates {
		if fileExists(path) == nil {
			return path, nil
		}
	}

	return "", &contracts.MissingInputError{Candidates: candidates}
}

// fileExists returns nil when path is a regular file
func fileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", path, os.ErrNotExist)
	}
	return nil
}
