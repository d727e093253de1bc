package region

import (
	"fmt"
	"strings"
)

// ValidationError pinpoints the first region that blocks a save so the
// caller can select it for correction. Nothing is saved when any region
// is invalid.
type ValidationError struct {
	RegionID string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("region %s: %s", e.RegionID, e.Reason)
}

var urlPrefixes = []string{"http://", "https://", "#", "/"}

// Validate checks every region before the set may be persisted. Form
// regions need at least one field; every other action type needs a
// non-empty value, with scheme checks for url and email actions.
func Validate(regions []Region) error {
	for _, r := range regions {
		if err := validateOne(r); err != nil {
			return err
		}
	}
	return nil
}

func validateOne(r Region) error {
	if r.ActionType == ActionFormInput {
		if len(r.FormFields) == 0 {
			return &ValidationError{RegionID: r.ID, Reason: "form requires at least one field"}
		}
		return nil
	}
	value := strings.TrimSpace(r.ActionValue)
	if value == "" {
		return &ValidationError{RegionID: r.ID, Reason: "action value is required"}
	}
	switch r.ActionType {
	case ActionURL:
		for _, prefix := range urlPrefixes {
			if strings.HasPrefix(value, prefix) {
				return nil
			}
		}
		return &ValidationError{RegionID: r.ID, Reason: "url must start with http://, https://, # or /"}
	case ActionEmail:
		if !strings.Contains(value, "@") {
			return &ValidationError{RegionID: r.ID, Reason: "email must contain @"}
		}
	}
	return nil
}
