package intent

import (
	"regexp"
	"strings"
)

// License plates are two digits, three digits, two digits, with each
// group optionally separated by a space or a dash.
var platePattern = regexp.MustCompile(`\d{2}[- ]?\d{3}[- ]?\d{2}`)

// ExtractPlate finds the first license-plate-shaped token in the message
// and returns it in canonical DD-DDD-DD form. The second return value is
// false when no plate is present.
func ExtractPlate(message string) (string, bool) {
	match := platePattern.FindString(message)
	if match == "" {
		return "", false
	}
	return NormalizePlate(match), true
}

// NormalizePlate rewrites any separator variant of a plate into the
// canonical dashed form.
func NormalizePlate(plate string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, plate)
	if len(digits) != 7 {
		return strings.ReplaceAll(plate, " ", "-")
	}
	return digits[0:2] + "-" + digits[2:5] + "-" + digits[5:7]
}
