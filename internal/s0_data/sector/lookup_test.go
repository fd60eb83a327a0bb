package sector

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/weekday-effect/internal/contracts"
)

func TestParse(t *testing.T) {
	input := `# company|sector
Alpha Corp|Technology

Beta Inc | Energy
Gamma|Media|Entertainment
no separator here
|Orphan
Alpha Corp|Software
`

	sectors, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	tests := []struct {
		company string
		want    string
	}{
		{"Alpha Corp", "Software"},          // later duplicate overwrites
		{"Beta Inc", "Energy"},              // padded key and label are trimmed
		{"Gamma", "Media|Entertainment"},    // split at the first separator only
		{"Delta", contracts.FallbackSector}, // absent
		{"no separator here", contracts.FallbackSector},
	}

	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			assert.Equal(t, tt.want, sectors.Lookup(tt.company))
		})
	}

	assert.Len(t, sectors, 3)
}

func TestLoad_Missing(t *testing.T) {
	sectors, err := Load(filepath.Join(t.TempDir(), "sector_mapping.txt"), nil)

	require.NoError(t, err)
	assert.Nil(t, sectors)
	assert.Equal(t, contracts.FallbackSector, sectors.Lookup("Alpha"))
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sector_mapping.txt")
	require.NoError(t, os.WriteFile(path, []byte("Alpha|Tech\n"), 0o644))

	src := &FileSource{Path: path}
	sectors, err := src.Sectors(context.Background())

	require.NoError(t, err)
	assert.Equal(t, contracts.SectorMap{"Alpha": "Tech"}, sectors)
}
