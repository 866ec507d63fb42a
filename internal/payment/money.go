package payment

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParsePriceCents converts a display price like "$1,200" or "$49.95"
// into integer cents. The display string is what the admin CMS stores,
// so this is the single place where it becomes a chargeable amount.
func ParsePriceCents(display string) (int64, error) {
	s := strings.TrimSpace(display)
	s = strings.TrimPrefix(s, "US$")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Errorf("unparseable price %q", display)
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, errors.Errorf("unparseable price %q", display)
	}

	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, errors.Errorf("unparseable price %q", display)
		}
		cents = d * 10
	case 2:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, errors.Errorf("unparseable price %q", display)
		}
		cents = d
	default:
		return 0, errors.Errorf("unparseable price %q", display)
	}

	return units*100 + cents, nil
}

// CentsToUnits converts integer cents to the float currency units the
// provider SDK expects
func CentsToUnits(cents int64) float64 {
	return float64(cents) / 100
}

// UnitsToCents converts provider float currency units back to cents
func UnitsToCents(units float64) int64 {
	if units < 0 {
		return int64(units*100 - 0.5)
	}
	return int64(units*100 + 0.5)
}
