package models

import (
	"fmt"

	dErrors "provreg/pkg/domain-errors"
)

// Validation primitives. Pure functions with no state access, invoked
// identically by every mutating operation that touches the corresponding
// fields. Lengths are byte lengths, lower bounds inclusive.

// ValidateDesignation checks the asset designation length (1..64).
func ValidateDesignation(s string) error {
	if len(s) == 0 || len(s) > DesignationMaxLen {
		return dErrors.New(dErrors.CodeInvalidMetadataFormat,
			fmt.Sprintf("asset designation must be 1-%d characters", DesignationMaxLen))
	}
	return nil
}

// ValidateSummary checks the descriptive summary length (1..128).
func ValidateSummary(s string) error {
	if len(s) == 0 || len(s) > SummaryMaxLen {
		return dErrors.New(dErrors.CodeInvalidMetadataFormat,
			fmt.Sprintf("descriptive summary must be 1-%d characters", SummaryMaxLen))
	}
	return nil
}

// ValidateFootprint checks the declared asset size. The upper bound is
// exclusive: valid values are 1..999,999,999.
func ValidateFootprint(v uint64) error {
	if v == 0 || v >= FootprintLimit {
		return dErrors.New(dErrors.CodeSizeConstraintViolated,
			fmt.Sprintf("binary footprint must be greater than 0 and less than %d", uint64(FootprintLimit)))
	}
	return nil
}

// ValidateLabels checks label-list well-formedness: 1-10 elements, every
// element 1-32 characters. Order is preserved by callers; this only checks
// structure.
func ValidateLabels(labels []string) error {
	if len(labels) == 0 || len(labels) > LabelCapacity {
		return dErrors.New(dErrors.CodeMetadataValidation,
			fmt.Sprintf("classification labels must contain 1-%d entries", LabelCapacity))
	}
	for i, label := range labels {
		if len(label) == 0 || len(label) > LabelMaxLen {
			return dErrors.New(dErrors.CodeMetadataValidation,
				fmt.Sprintf("classification label %d must be 1-%d characters", i, LabelMaxLen))
		}
	}
	return nil
}

// ValidateMetadata applies the full rule set for the four mutable record
// fields, in registration order.
func ValidateMetadata(designation string, footprint uint64, summary string, labels []string) error {
	if err := ValidateDesignation(designation); err != nil {
		return err
	}
	if err := ValidateFootprint(footprint); err != nil {
		return err
	}
	if err := ValidateSummary(summary); err != nil {
		return err
	}
	return ValidateLabels(labels)
}

// MergeLabels concatenates existing and extra labels, failing when the result
// would exceed capacity. The input slices are never modified; callers keep
// their originals on failure.
func MergeLabels(existing, extra []string) ([]string, error) {
	if len(existing)+len(extra) > LabelCapacity {
		return nil, dErrors.New(dErrors.CodeMetadataValidation,
			fmt.Sprintf("merged labels would exceed the %d entry capacity", LabelCapacity))
	}
	merged := make([]string, 0, len(existing)+len(extra))
	merged = append(merged, existing...)
	merged = append(merged, extra...)
	return merged, nil
}
