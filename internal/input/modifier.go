// Package input defines the normalized input event model and its vocabulary.
package input

import "strings"

// Modifiers is a bitset of active modifier keys.
type Modifiers uint16

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModOption
	ModCommand
	ModCapsLock
	ModFunction
	ModNumericPad
	ModHelp
)

// modifierOrder fixes the iteration order consumers rely on.
var modifierOrder = [...]struct {
	mod  Modifiers
	name string
}{
	{ModShift, "shift"},
	{ModControl, "control"},
	{ModOption, "option"},
	{ModCommand, "command"},
	{ModCapsLock, "capsLock"},
	{ModFunction, "function"},
	{ModNumericPad, "numericPad"},
	{ModHelp, "help"},
}

// modifierAliases maps accepted spellings from other platforms.
var modifierAliases = map[string]Modifiers{
	"alt":  ModOption,
	"meta": ModCommand,
	"win":  ModCommand,
}

// Has reports whether every bit of m is set.
func (s Modifiers) Has(m Modifiers) bool {
	return m != 0 && s&m == m
}

// Names returns the active modifiers in their stable order.
func (s Modifiers) Names() []string {
	out := make([]string, 0, len(modifierOrder))
	for _, entry := range modifierOrder {
		if s&entry.mod != 0 {
			out = append(out, entry.name)
		}
	}
	return out
}

// ParseModifier resolves one modifier name; unknown names report false.
func ParseModifier(name string) (Modifiers, bool) {
	for _, entry := range modifierOrder {
		if entry.name == name {
			return entry.mod, true
		}
	}
	m, ok := modifierAliases[strings.ToLower(name)]
	return m, ok
}

// ParseModifiers folds names into a set, silently skipping unknown names.
func ParseModifiers(names []string) Modifiers {
	var out Modifiers
	for _, name := range names {
		if m, ok := ParseModifier(strings.TrimSpace(name)); ok {
			out |= m
		}
	}
	return out
}

// FlagTable maps each modifier, in stable order, to a platform flag bit.
type FlagTable [8]uint64

// Decode converts a raw platform bitmask into Modifiers.
func (t FlagTable) Decode(raw uint64) Modifiers {
	var out Modifiers
	for i, entry := range modifierOrder {
		if t[i] != 0 && raw&t[i] == t[i] {
			out |= entry.mod
		}
	}
	return out
}

// Encode converts Modifiers into a raw platform bitmask.
func (t FlagTable) Encode(m Modifiers) uint64 {
	var raw uint64
	for i, entry := range modifierOrder {
		if m&entry.mod != 0 {
			raw |= t[i]
		}
	}
	return raw
}

// IdentityFlags maps modifier bit i to raw bit i.
var IdentityFlags = FlagTable{
	uint64(ModShift), uint64(ModControl), uint64(ModOption), uint64(ModCommand),
	uint64(ModCapsLock), uint64(ModFunction), uint64(ModNumericPad), uint64(ModHelp),
}
