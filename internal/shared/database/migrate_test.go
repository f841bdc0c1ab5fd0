package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrations_OrderedAndUnique(t *testing.T) {
	migrations := Migrations()
	assert.Equal(t, "0001_base_schema", migrations[0].Version)

	seen := make(map[string]bool)
	prev := ""
	for _, m := range migrations {
		assert.False(t, seen[m.Version], "duplicate version %s", m.Version)
		assert.Greater(t, m.Version, prev)
		assert.NotNil(t, m.Up)
		seen[m.Version] = true
		prev = m.Version
	}
}
