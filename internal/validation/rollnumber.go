package validation

import (
	"errors"
	"strings"
	"unicode"
)

const maxRollNumberLength = 64

// ValidateRollNumber checks a roll number before it is used as a login identity.
// Roll numbers are matched exactly, so no trimming or case folding happens here.
func ValidateRollNumber(rollNumber string) error {
	if strings.TrimSpace(rollNumber) == "" {
		return errors.New("roll number is required")
	}

	if len(rollNumber) > maxRollNumberLength {
		return errors.New("roll number is too long (max 64 characters)")
	}

	for _, r := range rollNumber {
		if unicode.IsControl(r) {
			return errors.New("roll number contains invalid characters")
		}
	}

	return nil
}
