package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetPlan_KeepsCatalogConsistent(t *testing.T) {
	tables, statements := resetPlan(false)

	assert.NotContains(t, tables, "products")
	require.Len(t, statements, 3)

	// Stock comes back before the orders holding it are wiped.
	assert.Contains(t, statements[0], "SET stock = p.stock + held.qty")
	assert.Contains(t, statements[0], "'pending', 'processing'")
	assert.Equal(t, "UPDATE products SET rating_avg = 0, review_count = 0", statements[1])
	assert.True(t, strings.HasPrefix(statements[2], "TRUNCATE TABLE "))
	assert.Contains(t, statements[2], "reviews")
	assert.Contains(t, statements[2], "orders")
}

func TestResetPlan_IncludeCatalog(t *testing.T) {
	tables, statements := resetPlan(true)

	assert.Contains(t, tables, "products")
	assert.Contains(t, tables, "categories")
	require.Len(t, statements, 1)
	assert.Contains(t, statements[0], "products, categories RESTART IDENTITY CASCADE")
}
