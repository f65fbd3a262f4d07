package utils

import (
	"fmt"
	"regexp"
)

var (
	hsCodeRegex      = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)
	controlCharRegex = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateHSCode validates a 10-digit harmonized system code in
// NNNN.NN.NN form.
func ValidateHSCode(code string) error {
	if !hsCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid HS code format: %s", code)
	}
	return nil
}

// SanitizeString removes control characters from user-supplied text
func SanitizeString(s string) string {
	return controlCharRegex.ReplaceAllString(s, "")
}
