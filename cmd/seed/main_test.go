package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissing(t *testing.T) {
	got, present := missing([]string{"AI", "vision"}, []string{" ai", "Vision", "IoT", "iot", "", "Robotics", "AI"})
	assert.Equal(t, []string{"IoT", "Robotics"}, got)
	assert.Equal(t, 2, present)
}

func TestSeedCountsFailures(t *testing.T) {
	var created []string
	res := seed([]string{"Z"}, []string{"A", "B", "C", "z"}, false, func(name string) error {
		if name == "B" {
			return errors.New("conflict")
		}
		created = append(created, name)
		return nil
	})
	assert.Equal(t, Result{Inserted: 2, Failed: 1, Present: 1}, res)
	assert.Equal(t, []string{"A", "C"}, created)
}

func TestSeedDryRunCountsPlanned(t *testing.T) {
	res := seed([]string{"AI"}, []string{"AI", "IoT", "Robotics", "iot"}, true, func(string) error {
		t.Fatal("dry run must not create")
		return nil
	})
	assert.Equal(t, Result{Planned: 2, Present: 1}, res)
	assert.Equal(t, "inserted=0, failed=0, would create=2, already present=1", res.String())
}

func TestLoadLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lists.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sectors:\n  - Informatique\ntags:\n  - AI\n  - IoT\n"), 0o644))

	lists, err := loadLists(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Informatique"}, lists.Sectors)
	assert.Equal(t, []string{"AI", "IoT"}, lists.Tags)
}
