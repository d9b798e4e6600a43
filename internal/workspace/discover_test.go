package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for discovery:
// - Discover returns files matching include patterns, sorted
// - Ignore patterns exclude files and prune whole directories
// - Invalid glob patterns fail at construction

func TestDiscover_IncludesAndIgnores(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "src/types.ts", "")
	writeFile(t, dir, "src/readme.md", "")
	writeFile(t, dir, "node_modules/pkg/index.d.ts", "")
	alsoWant := writeFile(t, dir, "src/nested/api.d.ts", "")

	discovery, err := NewDiscovery(dir,
		[]string{"**/*.ts"},
		[]string{"node_modules/**"},
	)
	require.NoError(t, err)

	files, err := discovery.Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "src/nested/api.d.ts"), filepath.Join(dir, "src/types.ts")}, files)
	assert.Contains(t, files, want)
	assert.Contains(t, files, alsoWant)
}

func TestNewDiscovery_InvalidPattern(t *testing.T) {
	_, err := NewDiscovery(t.TempDir(), []string{"[unclosed"}, nil)
	assert.Error(t, err)
}
