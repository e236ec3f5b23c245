// Package reconcile computes differences between update set name lists.
//
// Names compare equal when they match after trimming surrounding whitespace
// and folding case. Results keep the order of the left-hand list and return
// the original, unnormalized strings.
package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/snset/internal/messages"
	"github.com/conn-castle/snset/internal/updateset"
)

// ErrInvalidNames is returned when a name list is empty or has a blank element.
var ErrInvalidNames = errors.New(messages.ReconcileInvalidNames)

// ValidateNames checks that names is non-empty and contains no blank names.
func ValidateNames(names []string) error {
	return validate(messages.ReconcileNamesLabel, names)
}

// Diff returns the items of left that are not present in right.
func Diff(left []string, right []string) ([]string, error) {
	if err := validate(messages.ReconcileLeftLabel, left); err != nil {
		return nil, err
	}
	if err := validate(messages.ReconcileRightLabel, right); err != nil {
		return nil, err
	}

	exclude := make(map[string]struct{}, len(right))
	for _, name := range right {
		exclude[updateset.Normalize(name)] = struct{}{}
	}
	out := make([]string, 0, len(left))
	for _, name := range left {
		if _, ok := exclude[updateset.Normalize(name)]; ok {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

func validate(label string, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf(messages.ReconcileEmptyListFmt, ErrInvalidNames, label)
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf(messages.ReconcileBlankElementFmt, ErrInvalidNames, label, i)
		}
	}
	return nil
}
