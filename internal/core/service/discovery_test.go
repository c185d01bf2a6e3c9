package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverUnits(t *testing.T) {
	root := t.TempDir()
	a := makeUnit(t, root, "batch1/pe20", nil)
	b := makeUnit(t, root, "batch1/pe50", nil)
	c := makeUnit(t, root, "batch2/peo10", nil)

	// A directory without the input descriptor is not a unit, even with
	// other simulation files present.
	noMarker := filepath.Join(root, "batch2/scratch")
	require.NoError(t, os.MkdirAll(noMarker, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(noMarker, domain.SolverLogName), []byte("x"), 0o644))

	dirs, err := DiscoverUnits(root)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, dirs)
}

func TestDiscoverUnitsEmptyRoot(t *testing.T) {
	dirs, err := DiscoverUnits(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, dirs)
}
