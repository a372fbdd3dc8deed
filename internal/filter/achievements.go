package filter

import (
	"slices"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
)

// AchievementView is the display projection of an achievement. The raw period code
// is not carried; use ByPeriod with the origin records to filter by period.
type AchievementView struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Reward        int64  `json:"reward"`
	Position      string `json:"position"`
	PositionLabel string `json:"position_label"`
	Division      string `json:"division"`
	PeriodLabel   string `json:"period_label"`
}

var periodLabels = map[string]string{
	models.PeriodDay:   "День",
	models.PeriodWeek:  "Неделя",
	models.PeriodMonth: "Месяц",
}

// PeriodLabel returns the human label of a period code; unknown codes pass through.
func PeriodLabel(code string) string {
	if label, ok := periodLabels[code]; ok {
		return label
	}
	return code
}

// ForEmployee narrows the catalog to what the employee may see. Buyers from the
// first line see first-line positions, buyers from the second line see second-line
// and expert positions; everyone else sees the whole catalog.
func ForEmployee(achievements []models.Achievement, user models.Employee) []models.Achievement {
	if !user.Role.IsBuyer() {
		return achievements
	}

	var roster []string
	switch {
	case org.IsFirstLine(user.Division):
		roster = firstLineRoster
	case org.IsSecondLine(user.Division):
		roster = secondLineRoster
	default:
		return achievements
	}

	return keep(achievements, func(a models.Achievement) bool {
		return slices.Contains(roster, a.Position)
	})
}

// ByPositionKey keeps achievements of the position behind the callback key.
func ByPositionKey(achievements []models.Achievement, key string) []models.Achievement {
	if key == "" || key == org.DivisionAll {
		return achievements
	}
	position := PositionFromKey(key)
	return keep(achievements, func(a models.Achievement) bool { return a.Position == position })
}

// ByDivisionKey keeps achievements of the division bucket behind the selector key.
// Unknown keys match nothing.
func ByDivisionKey(achievements []models.Achievement, key string) []models.Achievement {
	if key == "" || key == org.DivisionAll {
		return achievements
	}
	division, ok := org.DivisionFromKey(key)
	if !ok {
		return nil
	}
	return keep(achievements, func(a models.Achievement) bool { return a.Division == division })
}

// Project converts achievements into display views.
func Project(achievements []models.Achievement) []AchievementView {
	views := make([]AchievementView, 0, len(achievements))
	for _, a := range achievements {
		views = append(views, AchievementView{
			ID:            a.ID,
			Name:          a.Name,
			Description:   a.Description,
			Reward:        a.Reward,
			Position:      a.Position,
			PositionLabel: PositionDisplayName(a.Position),
			Division:      a.Division,
			PeriodLabel:   PeriodLabel(a.Period),
		})
	}
	return views
}

// ByPeriod keeps views whose origin record, matched by ID, has exactly the given
// period code. Views without an origin are dropped.
func ByPeriod(views []AchievementView, origins []models.Achievement, code string) []AchievementView {
	if code == "" || code == org.DivisionAll {
		return views
	}

	periods := make(map[int64]string, len(origins))
	for _, origin := range origins {
		periods[origin.ID] = origin.Period
	}

	var out []AchievementView
	for _, view := range views {
		if period, ok := periods[view.ID]; ok && period == code {
			out = append(out, view)
		}
	}
	return out
}

func keep[T any](items []T, pred func(T) bool) []T {
	var out []T
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}
