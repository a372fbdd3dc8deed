package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/bazaar/internal/models"
)

// Achievements returns the achievement catalog, optionally limited to one division.
func (r *Repository) Achievements(ctx context.Context, filter models.AchievementFilter) ([]models.Achievement, error) {
	rows, err := r.db.Query(ctx, SelectAchievementsSQL, filter.Division)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", classify(err))
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err = rows.Scan(&a.ID, &a.Name, &a.Description, &a.Reward, &a.Position, &a.Division, &a.Period); err != nil {
			return nil, fmt.Errorf("failed to scan achievement row: %w", err)
		}
		achievements = append(achievements, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read achievement rows: %w", classify(err))
	}

	return achievements, nil
}
