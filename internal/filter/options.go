package filter

import (
	"cmp"
	"slices"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
)

// Option is one entry of a selector: a callback-safe key and its label.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// AllOption is the selector entry that disables a filter.
var AllOption = Option{Key: org.DivisionAll, Label: "Все"}

// PositionOptions lists the distinct positions of the achievements, sorted by key,
// with AllOption first.
func PositionOptions(achievements []models.Achievement) []Option {
	seen := make(map[string]struct{})
	var options []Option
	for _, a := range achievements {
		if _, ok := seen[a.Position]; ok {
			continue
		}
		seen[a.Position] = struct{}{}
		options = append(options, Option{Key: PositionKey(a.Position), Label: PositionDisplayName(a.Position)})
	}
	slices.SortFunc(options, func(a, b Option) int { return cmp.Compare(a.Key, b.Key) })
	return append([]Option{AllOption}, options...)
}

// PeriodOptions lists the period selector entries.
func PeriodOptions() []Option {
	return []Option{
		AllOption,
		{Key: models.PeriodDay, Label: PeriodLabel(models.PeriodDay)},
		{Key: models.PeriodWeek, Label: PeriodLabel(models.PeriodWeek)},
		{Key: models.PeriodMonth, Label: PeriodLabel(models.PeriodMonth)},
	}
}

// DivisionOptions lists the division selector entries for the given available
// divisions. AllOption is offered when it is selected or when more than one
// division is available.
func DivisionOptions(available []string, selectedKey string) []Option {
	var options []Option
	if selectedKey == org.DivisionAll || len(available) > 1 {
		options = append(options, AllOption)
	}
	for _, division := range []string{org.DivisionNCK, org.DivisionNTP} {
		if slices.Contains(available, division) {
			options = append(options, Option{Key: org.DivisionKey(division), Label: division})
		}
	}
	return options
}
