package prefetch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-asset-cache/internal/config"
	"go-asset-cache/internal/models"
)

func defaultBudgets() map[models.ConnectionClass]config.BudgetConfig {
	return config.Default().Prefetch.Budgets
}

func TestBudgetFor_DataSaverAlwaysZero(t *testing.T) {
	// Data saver wins even on the fastest connection
	profile := models.ConnectionProfile{EffectiveType: models.Connection4G, DataSaver: true}

	budget := BudgetFor(profile, defaultBudgets())

	assert.True(t, budget.IsZero())
	assert.Equal(t, 0, budget.MaxImages)
	assert.Equal(t, 0, budget.MaxConcurrent)
}

func TestBudgetFor_SlowConnectionsZero(t *testing.T) {
	for _, class := range []models.ConnectionClass{models.ConnectionSlow2G, models.Connection2G} {
		budget := BudgetFor(models.ConnectionProfile{EffectiveType: class}, defaultBudgets())
		assert.True(t, budget.IsZero(), "class: %s", class)
	}
}

func TestBudgetFor_TableLookup(t *testing.T) {
	budget := BudgetFor(models.ConnectionProfile{EffectiveType: models.Connection3G}, defaultBudgets())
	assert.Equal(t, models.PrefetchBudget{MaxImages: 5, MaxConcurrent: 2}, budget)

	budget = BudgetFor(models.ConnectionProfile{EffectiveType: models.Connection4G}, defaultBudgets())
	assert.Equal(t, models.PrefetchBudget{MaxImages: 20, MaxConcurrent: 6}, budget)
}

func TestBudgetFor_UnknownClassGets4GRow(t *testing.T) {
	budget := BudgetFor(models.ConnectionProfile{EffectiveType: "5g"}, defaultBudgets())
	assert.Equal(t, models.PrefetchBudget{MaxImages: 20, MaxConcurrent: 6}, budget)

	budget = BudgetFor(models.ConnectionProfile{}, defaultBudgets())
	assert.Equal(t, models.PrefetchBudget{MaxImages: 20, MaxConcurrent: 6}, budget)
}

func TestBudgetFor_EmptyTableFallback(t *testing.T) {
	budget := BudgetFor(models.ConnectionProfile{EffectiveType: models.Connection4G}, nil)
	assert.Equal(t, models.PrefetchBudget{MaxImages: 20, MaxConcurrent: 6}, budget)
}

func TestBudgetFor_Pure(t *testing.T) {
	profile := models.ConnectionProfile{EffectiveType: models.Connection3G}
	budgets := defaultBudgets()

	first := BudgetFor(profile, budgets)
	second := BudgetFor(profile, budgets)

	assert.Equal(t, first, second)
}
