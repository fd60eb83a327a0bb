package s0_data

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/weekday-effect/internal/contracts"
)

func TestDiscover(t *testing.T) {
	existing := writeFile(t, "dataset.csv", "company_name\n")
	missing := filepath.Join(t.TempDir(), "dataset.csv")

	tests := []struct {
		name       string
		explicit   string
		candidates []string
		want       string
		wantErr    bool
	}{
		{"explicit wins", existing, []string{missing}, existing, false},
		{"first existing candidate", "", []string{missing, existing}, existing, false},
		{"explicit missing", missing, []string{existing}, "", true},
		{"nothing found", "", []string{missing}, "", true},
		{"directory is not a table", "", []string{filepath.Dir(existing)}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discover(tt.explicit, tt.candidates)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, contracts.ErrMissingInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscover_ReportsCandidates(t *testing.T) {
	_, err := Discover("", []string{"/nope/a.csv", "/nope/b.csv"})

	var missing *contracts.MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"/nope/a.csv", "/nope/b.csv"}, missing.Candidates)
}
