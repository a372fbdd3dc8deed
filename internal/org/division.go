package org

import "strings"

// Division names used by the filters.
const (
	DivisionNCK  = "НЦК"
	DivisionNTP  = "НТП"
	DivisionNTP1 = "НТП1"
	DivisionNTP2 = "НТП2"
	DivisionAll  = "all"
)

// NormalizeDivision maps a raw division into its coarse bucket: both support lines
// collapse into НТП, НЦК stays distinct, everything else is returned unchanged.
func NormalizeDivision(raw string) string {
	switch {
	case strings.Contains(raw, DivisionNTP1), strings.Contains(raw, DivisionNTP2):
		return DivisionNTP
	case strings.Contains(raw, DivisionNCK):
		return DivisionNCK
	default:
		return raw
	}
}

// IsFirstLine reports whether the raw division belongs to the first support line.
func IsFirstLine(raw string) bool { return strings.Contains(raw, DivisionNTP1) }

// IsSecondLine reports whether the raw division belongs to the second support line.
func IsSecondLine(raw string) bool { return strings.Contains(raw, DivisionNTP2) }

// ApproverScope returns the buyer divisions a dual-role approver from the given
// division is responsible for.
func ApproverScope(division string) []string {
	if division == DivisionNCK {
		return []string{DivisionNCK}
	}
	return []string{DivisionNTP1, DivisionNTP2}
}

// InScope reports whether the buyer division is covered by the approver's scope.
func InScope(approverDivision, buyerDivision string) bool {
	for _, division := range ApproverScope(approverDivision) {
		if division == buyerDivision {
			return true
		}
	}
	return false
}

var divisionKeys = map[string]string{
	"all": DivisionAll,
	"nck": DivisionNCK,
	"ntp": DivisionNTP,
}

// DivisionFromKey resolves a selector key (all, nck, ntp) into a division bucket.
func DivisionFromKey(key string) (string, bool) {
	division, ok := divisionKeys[key]
	return division, ok
}

// DivisionKey is the inverse of DivisionFromKey. Unknown buckets yield an empty key.
func DivisionKey(division string) string {
	for key, value := range divisionKeys {
		if value == division {
			return key
		}
	}
	return ""
}

// MatchesDivision reports whether an item scoped to itemDivision is visible under the
// given filter. The "all" value on either side matches everything.
func MatchesDivision(itemDivision, filter string) bool {
	if filter == "" || filter == DivisionAll || itemDivision == DivisionAll {
		return true
	}
	return NormalizeDivision(itemDivision) == NormalizeDivision(filter)
}
