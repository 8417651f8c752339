package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Providers are loose with types: ids arrive as strings or numbers,
// durations as numbers or numeric strings. These decode tolerantly
// and never fail the whole response over one odd field.

type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		*s = flexString(num.String())
		return nil
	}
	*s = ""
	return nil
}

type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = flexInt(int(f))
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		// parseInt semantics: leading integer digits only
		str = strings.TrimSpace(str)
		end := 0
		for end < len(str) && (str[end] >= '0' && str[end] <= '9' || end == 0 && (str[end] == '-' || str[end] == '+')) {
			end++
		}
		if v, err := strconv.Atoi(str[:end]); err == nil {
			*n = flexInt(v)
			return nil
		}
	}
	*n = 0
	return nil
}
