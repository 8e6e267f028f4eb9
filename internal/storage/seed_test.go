package storage

import (
	"os"
	"path/filepath"
	"testing"

	"cleanlog/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeedApartments(t *testing.T) {
	path := filepath.Join(t.TempDir(), SeedFile)
	content := "# code,building,number\nA-1, North ,1\n\nA-1,South,2\nB-2\n ,X,3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got := ReadSeedApartments(path)
	assert.Equal(t, []core.Apartment{
		{Code: "A-1", Building: "North", Number: "1"},
		{Code: "B-2"},
	}, got)
}

func TestReadSeedApartmentsMissingFile(t *testing.T) {
	assert.Empty(t, ReadSeedApartments(filepath.Join(t.TempDir(), "nope.txt")))
}
