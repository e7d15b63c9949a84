package wizard

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateExportName checks a candidate export name against the current set.
// Names are compared after trimming and are case-sensitive.
func ValidateExportName(name string, existing []string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return NewValidationError(
			CodeEmptyExportName,
			"export name cannot be empty",
			"",
		)
	}

	if slices.Contains(existing, trimmed) {
		return NewValidationError(
			CodeDuplicateExportName,
			"export name already defined",
			fmt.Sprintf("name: %s", trimmed),
		)
	}

	return nil
}

// ValidateSolutionName checks that name refers to a feasible candidate of the catalog.
func ValidateSolutionName(name string, catalog []SolutionCandidate) (SolutionCandidate, error) {
	if strings.TrimSpace(name) == "" {
		return SolutionCandidate{}, NewValidationError(
			CodeEmptySolutionName,
			"solution name cannot be empty",
			"",
		)
	}

	idx := slices.IndexFunc(catalog, func(c SolutionCandidate) bool { return c.Name == name })
	if idx < 0 {
		return SolutionCandidate{}, NewValidationError(
			CodeUnknownSolution,
			"unknown solution",
			fmt.Sprintf("name: %s", name),
		)
	}

	if !catalog[idx].Available {
		return SolutionCandidate{}, NewValidationError(
			CodeUnavailableSolution,
			"solution is not feasible with the available devices",
			fmt.Sprintf("name: %s", name),
		)
	}

	return catalog[idx], nil
}
