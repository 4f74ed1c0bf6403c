// Package input defines the normalized input event model and its vocabulary.
package input

import (
	"fmt"
	"strings"
)

// Category is the unit of blocking and permission granularity.
type Category string

const (
	// CategoryKeyboard covers key down/up and modifier changes.
	CategoryKeyboard Category = "keyboard"
	// CategoryPointer covers every mouse button, motion and scroll event.
	CategoryPointer Category = "mouse"
)

// Categories lists every category in reporting order.
var Categories = []Category{CategoryKeyboard, CategoryPointer}

// ParseCategory resolves a wire category name.
func ParseCategory(name string) (Category, error) {
	switch Category(strings.TrimSpace(name)) {
	case CategoryKeyboard:
		return CategoryKeyboard, nil
	case CategoryPointer:
		return CategoryPointer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, name)
	}
}

// ParseCategories resolves every name or fails without a partial result.
func ParseCategories(names []string) ([]Category, error) {
	out := make([]Category, 0, len(names))
	for _, name := range names {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Bit returns the category's position in a CategorySet.
func (c Category) Bit() CategorySet {
	switch c {
	case CategoryKeyboard:
		return 1 << 0
	case CategoryPointer:
		return 1 << 1
	default:
		return 0
	}
}

// CategorySet is a bitset of categories.
type CategorySet uint32

// AllCategories has every known category set.
const AllCategories = CategorySet(1<<0 | 1<<1)

// Has reports whether c is a member of the set.
func (s CategorySet) Has(c Category) bool {
	bit := c.Bit()
	return bit != 0 && s&bit == bit
}

// With returns the set with c added.
func (s CategorySet) With(c Category) CategorySet {
	return s | c.Bit()
}

// Without returns the set with c removed.
func (s CategorySet) Without(c Category) CategorySet {
	return s &^ c.Bit()
}

// List returns the members in reporting order.
func (s CategorySet) List() []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the members as wire names.
func (s CategorySet) Names() []string {
	list := s.List()
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = string(c)
	}
	return out
}
