package filter

import "strings"

type positionEntry struct {
	position string
	key      string
	label    string
}

// positionTable is the single source for the position <-> callback key mapping.
var positionTable = []positionEntry{
	{position: "Специалист", key: "spec", label: "Спец"},
	{position: "Специалист первой линии", key: "spec_ntp1", label: "Спец"},
	{position: "Специалист второй линии", key: "spec_ntp2", label: "Спец"},
	{position: "Ведущий специалист", key: "lead_spec", label: "Ведущий"},
	{position: "Ведущий специалист первой линии", key: "lead_spec_ntp1", label: "Ведущий"},
	{position: "Ведущий специалист второй линии", key: "lead_spec_ntp2", label: "Ведущий"},
	{position: "Эксперт", key: "expert", label: "Эксперт"},
	{position: "Эксперт второй линии", key: "expert_ntp2", label: "Эксперт"},
}

var (
	keyByPosition   = make(map[string]positionEntry, len(positionTable))
	positionByKey   = make(map[string]positionEntry, len(positionTable))
	firstLineRoster = []string{
		"Специалист первой линии",
		"Ведущий специалист первой линии",
	}
	secondLineRoster = []string{
		"Специалист второй линии",
		"Ведущий специалист второй линии",
		"Эксперт второй линии",
	}
)

func init() {
	for _, entry := range positionTable {
		keyByPosition[entry.position] = entry
		positionByKey[entry.key] = entry
	}
}

// PositionKey returns an ASCII callback key for a position. Unknown positions are
// slugified: lower case with spaces replaced by underscores.
func PositionKey(position string) string {
	if entry, ok := keyByPosition[position]; ok {
		return entry.key
	}
	return strings.ReplaceAll(strings.ToLower(position), " ", "_")
}

// PositionFromKey is the inverse of PositionKey for known keys and returns unknown
// keys unchanged.
func PositionFromKey(key string) string {
	if entry, ok := positionByKey[key]; ok {
		return entry.position
	}
	return key
}

// PositionDisplayName returns the short selector label of a position.
func PositionDisplayName(position string) string {
	if entry, ok := keyByPosition[position]; ok {
		return entry.label
	}
	return position
}
