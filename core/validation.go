package core

import (
	"fmt"
	"strings"
)

const maxNameLength = 200

// ValidateNewTool checks the caller-controlled fields of a new record.
func ValidateNewTool(t Tool) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidTool)
	}
	if len(t.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidTool, maxNameLength)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: description must not be empty", ErrInvalidTool)
	}
	return nil
}

// ValidatePatch rejects patches that would blank out required fields.
func ValidatePatch(p ToolPatch) error {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return fmt.Errorf("%w: name must not be empty", ErrInvalidTool)
		}
		if len(*p.Name) > maxNameLength {
			return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidTool, maxNameLength)
		}
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return fmt.Errorf("%w: description must not be empty", ErrInvalidTool)
	}
	return nil
}
