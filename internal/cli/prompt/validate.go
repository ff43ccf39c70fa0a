package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/tombee/heyreach/internal/operation"
)

// ValidateString rejects empty, oversized and control-character answers.
func ValidateString(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("a value is required")
	}
	if len(input) > MaxInputSize {
		return fmt.Errorf("input exceeds maximum size of %d bytes", MaxInputSize)
	}
	for i, r := range input {
		if unicode.IsControl(r) && r != '\t' {
			return fmt.Errorf("input contains invalid control character at position %d", i)
		}
	}
	return nil
}

// ValidateID accepts a positive integer id.
func ValidateID(input string) error {
	if err := ValidateString(input); err != nil {
		return err
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64); err != nil || id <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func validatorFor(p operation.ParameterInfo) func(string) error {
	if p.Type == "id" {
		return ValidateID
	}
	return ValidateString
}
