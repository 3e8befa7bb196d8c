package prefetch

import (
	"go-asset-cache/internal/config"
	"go-asset-cache/internal/models"
)

// BudgetFor derives the prefetch budget for a connection profile from the
// configured budget table. Pure function of its inputs; the budget is
// never stored. Data-saver preference or a 2g-class connection always
// yields the zero budget regardless of the table.
func BudgetFor(profile models.ConnectionProfile, budgets map[models.ConnectionClass]config.BudgetConfig) models.PrefetchBudget {
	if profile.DataSaver {
		return models.PrefetchBudget{}
	}

	switch profile.EffectiveType {
	case models.ConnectionSlow2G, models.Connection2G:
		return models.PrefetchBudget{}
	}

	if row, ok := budgets[profile.EffectiveType]; ok {
		return models.PrefetchBudget{MaxImages: row.MaxImages, MaxConcurrent: row.MaxConcurrent}
	}

	// Unknown classes get the 4g row, matching the optimistic default of
	// platforms that do not report an effective type
	if row, ok := budgets[models.Connection4G]; ok {
		return models.PrefetchBudget{MaxImages: row.MaxImages, MaxConcurrent: row.MaxConcurrent}
	}

	return models.PrefetchBudget{MaxImages: 20, MaxConcurrent: 6}
}
