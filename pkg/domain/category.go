package domain

import dErrors "datatrail/pkg/domain-errors"

// DataCategory labels what kind of data a record or consent entry covers.
// Invariant: the value must be one of the supported categories; the set is
// closed and extends only by redesign.
//
// Usage: construct via ParseDataCategory at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type DataCategory string

// Supported data categories.
const (
	DataCategoryDriving DataCategory = "driving"
	DataCategoryHealth  DataCategory = "health"
	DataCategoryOther   DataCategory = "other"
)

// validDataCategories is the single source of truth for valid categories.
var validDataCategories = map[DataCategory]bool{
	DataCategoryDriving: true,
	DataCategoryHealth:  true,
	DataCategoryOther:   true,
}

// ParseDataCategory constructs a DataCategory from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported; no
// other errors are expected.
func ParseDataCategory(s string) (DataCategory, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "category cannot be empty")
	}
	c := DataCategory(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid category")
	}
	return c, nil
}

// IsValid checks if the category is one of the supported enum values.
func (c DataCategory) IsValid() bool {
	return validDataCategories[c]
}

// String returns the string representation of the category.
func (c DataCategory) String() string {
	return string(c)
}
