package usecase

import (
	"strings"
	"unicode"

	"lot-backend/model"
	"lot-backend/pkg/apperror"
)

func validateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.New(apperror.Argument, "%s must not be empty", field)
	}
	return nil
}

// validateCurrency accepts ISO 4217 shaped codes: three upper case letters.
func validateCurrency(code string) error {
	if len(code) != 3 {
		return apperror.New(apperror.Argument, "currency code %q must have three letters", code)
	}
	for _, r := range code {
		if r > unicode.MaxASCII || !unicode.IsUpper(r) {
			return apperror.New(apperror.Argument, "currency code %q must have three upper case letters", code)
		}
	}
	return nil
}

func validateLifeSpan(lifeSpan int64) error {
	if lifeSpan <= 0 {
		return apperror.New(apperror.Argument, "life span must be positive, got %d", lifeSpan)
	}
	return nil
}

func validateValue(value float64) error {
	if value < 0 {
		return apperror.New(apperror.Argument, "value must not be negative, got %v", value)
	}
	return nil
}

func validateTags(tags []model.Tag) error {
	for _, tag := range tags {
		if tag.IsNew() {
			if err := validateName("tag name", tag.Name); err != nil {
				return err
			}
			continue
		}
		if tag.ID <= 0 {
			return apperror.New(apperror.Argument, "invalid tag id %d", tag.ID)
		}
	}
	return nil
}

func validateRange[T int64 | float64](field string, r *model.Range[T]) error {
	if r != nil && r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return apperror.New(apperror.Argument, "%s range is inverted: %v > %v", field, *r.Min, *r.Max)
	}
	return nil
}

func validateOwner(ownerID string) error {
	return validateName("owner id", ownerID)
}
