package sector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/pkg/logger"
)

// Separator splits company from sector. Only the first occurrence counts.
const Separator = "|"

// Load reads a "company|sector" text file.
// A missing file is not an error: it returns a nil map and every company becomes "Unknown".
func Load(path string, log *logger.Logger) (contracts.SectorMap, error) {
	if log == nil {
		log = logger.Nop()
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.WithField("path", path).Warn("sector mapping not found, all companies will be Unknown")
			return nil, nil
		}
		return nil, fmt.Errorf("open sector mapping: %w", err)
	}
	defer f.Close()

	sectors, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read sector mapping %s: %w", path, err)
	}

	log.WithFields(map[string]interface{}{
		"path":    path,
		"entries": len(sectors),
	}).Info("sector mapping loaded")

	return sectors, nil
}

// Parse reads mapping lines from r.
// Blank lines, "#" comments and lines without a separator are skipped.
// Later entries for the same company overwrite earlier ones.
func Parse(r io.Reader) (contracts.SectorMap, error) {
	sectors := make(contracts.SectorMap)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		company, label, ok := strings.Cut(line, Separator)
		if !ok {
			continue
		}
		company = strings.TrimSpace(company)
		if company == "" {
			continue
		}
		sectors[company] = strings.TrimSpace(label)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return sectors, nil
}

// FileSource implements contracts.SectorSource for the text mapping file
type FileSource struct {
	Path   string
	Logger *logger.Logger
}

// Sectors loads the mapping file
func (s *FileSource) Sectors(_ context.Context) (contracts.SectorMap, error) {
	return Load(s.Path, s.Logger)
}
