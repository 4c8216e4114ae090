package utils

import (
	"errors"
	"fmt"
	"sort"
)

var ErrValidation = errors.New("validation failed")

// ValidateSearchFields rejects any search key missing from recognized.
func ValidateSearchFields[T any](recognized map[string]T, search map[string]string) error {
	if len(search) == 0 {
		return nil
	}
	keys := make([]string, 0, len(search))
	for key := range search {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := recognized[key]; !ok {
			return fmt.Errorf("%w: field %q is not a valid search field", ErrValidation, key)
		}
	}
	return nil
}
