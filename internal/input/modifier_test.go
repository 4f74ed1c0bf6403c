package input

import "testing"

// TestModifiers_NamesStableOrder verifies names follow the fixed vocabulary order.
func TestModifiers_NamesStableOrder(t *testing.T) {
	m := ModHelp | ModShift | ModNumericPad | ModOption | ModControl | ModFunction | ModCapsLock | ModCommand
	want := []string{"shift", "control", "option", "command", "capsLock", "function", "numericPad", "help"}
	got := m.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

// TestParseModifiers_IgnoresUnknown verifies unknown names are skipped silently.
func TestParseModifiers_IgnoresUnknown(t *testing.T) {
	m := ParseModifiers([]string{"shift", "bogus", ""})
	if m != ModShift {
		t.Fatalf("expected shift only, got %v", m.Names())
	}
}

// TestParseModifiers_Aliases verifies cross-platform spellings resolve.
func TestParseModifiers_Aliases(t *testing.T) {
	m := ParseModifiers([]string{"alt", "win"})
	if !m.Has(ModOption) || !m.Has(ModCommand) || m.Has(ModShift) {
		t.Fatalf("unexpected modifiers: %v", m.Names())
	}
}

// TestFlagTable_DecodeEncode verifies a sparse platform table maps both ways.
func TestFlagTable_DecodeEncode(t *testing.T) {
	table := FlagTable{0x20000, 0x40000, 0x80000, 0x100000, 0x10000, 0x800000, 0x200000, 0x400000}
	raw := uint64(0x20000 | 0x100000 | 0x1)
	m := table.Decode(raw)
	if m != ModShift|ModCommand {
		t.Fatalf("expected shift+command, got %v", m.Names())
	}
	if enc := table.Encode(ModShift | ModCommand); enc != 0x120000 {
		t.Fatalf("expected 0x120000, got %#x", enc)
	}
}
