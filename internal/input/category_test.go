package input

import (
	"errors"
	"testing"
)

// TestParseCategories_AllOrNothing verifies one bad name rejects the whole list.
func TestParseCategories_AllOrNothing(t *testing.T) {
	out, err := ParseCategories([]string{"keyboard", "notAType"})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no partial result, got %v", out)
	}
}

// TestCategorySet_Membership verifies set operations and reporting order.
func TestCategorySet_Membership(t *testing.T) {
	var s CategorySet
	s = s.With(CategoryPointer).With(CategoryKeyboard)
	if s != AllCategories {
		t.Fatalf("expected all categories, got %b", s)
	}
	names := s.Names()
	if len(names) != 2 || names[0] != "keyboard" || names[1] != "mouse" {
		t.Fatalf("unexpected names: %v", names)
	}
	s = s.Without(CategoryKeyboard)
	if s.Has(CategoryKeyboard) || !s.Has(CategoryPointer) {
		t.Fatalf("unexpected membership: %b", s)
	}
	if s.Has(Category("bogus")) {
		t.Fatalf("expected unknown category to never be a member")
	}
}

// TestParseKinds verifies the closed kind vocabularies.
func TestParseKinds(t *testing.T) {
	if _, err := ParseKeyboardKind("flagsChanged"); err != nil {
		t.Fatalf("expected flagsChanged to parse: %v", err)
	}
	if _, err := ParseKeyboardKind("keyPress"); !errors.Is(err, ErrInvalidEventKind) {
		t.Fatalf("expected ErrInvalidEventKind, got %v", err)
	}
	for _, k := range PointerKinds {
		if _, err := ParsePointerKind(string(k)); err != nil {
			t.Fatalf("expected %s to parse: %v", k, err)
		}
	}
	if _, err := ParsePointerKind("doubleClick"); !errors.Is(err, ErrInvalidEventKind) {
		t.Fatalf("expected ErrInvalidEventKind, got %v", err)
	}
}
