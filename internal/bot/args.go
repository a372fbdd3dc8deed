package bot

import (
	"errors"
	"strconv"
	"strings"
)

var errBadArgs = errors.New("bad command arguments")

// parseIDArgs splits "<id> [text]" into a positive ID and the trimmed remainder.
func parseIDArgs(payload string) (int64, string, error) {
	payload = strings.TrimSpace(payload)
	first, rest, _ := strings.Cut(payload, " ")
	if first == "" {
		return 0, "", errBadArgs
	}
	id, err := strconv.ParseInt(first, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", errBadArgs
	}
	return id, strings.TrimSpace(rest), nil
}

func optional(text string) *string {
	if text == "" {
		return nil
	}
	return &text
}

// splitFilterData decodes "<key>|<period>" callback data.
func splitFilterData(data string) (string, string) {
	key, period, _ := strings.Cut(data, "|")
	return key, period
}

func joinFilterData(key, period string) string {
	return key + "|" + period
}
