package keypad

import "testing"

// press runs a compact key script: digits, '.', operators, '=' for equals,
// 'C' for clear, '<' for backspace, '~' for negate, 'u' for undo.
func press(c *Calculator, keys string) {
	for _, k := range keys {
		switch {
		case k >= '0' && k <= '9':
			c.Digit(int(k - '0'))
		case k == '.':
			c.Dot()
		case k == '=':
			c.Equals()
		case k == 'C':
			c.Clear()
		case k == '<':
			c.Backspace()
		case k == '~':
			c.Negate()
		case k == 'u':
			c.Undo()
		default:
			c.Operator(string(k))
		}
	}
}

func TestKeypadSequences(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"start", "", "0"},
		{"digit entry", "123", "123"},
		{"leading zero replaced", "07", "7"},
		{"decimal entry", "1.5", "1.5"},
		{"second dot ignored", "1.5.2", "1.52"},
		{"dot starts entry", ".5", "0.5"},
		{"add", "2+3=", "5"},
		{"subtract chain", "10-3-2=", "5"},
		{"multiply", "6*7=", "42"},
		{"divide", "9/4=", "2.25"},
		{"power", "2^10=", "1024"},
		{"chained ops fold left", "2+3*4=", "20"},
		{"equals without pending", "5=", "5"},
		{"unknown operator ignored", "8+%9=", "17"},
		{"divide by zero", "5/0=", "Error"},
		{"error is sticky", "5/0=+1=", "Error"},
		{"clear recovers", "5/0=C2+2=", "4"},
		{"negate", "5~", "-5"},
		{"negate then add", "5~+8=", "3"},
		{"backspace", "123<", "12"},
		{"backspace to zero", "7<", "0"},
		{"undo digit", "12u", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			press(c, tt.keys)
			if got := c.Display(); got != tt.want {
				t.Errorf("keys %q: got %q, want %q", tt.keys, got, tt.want)
			}
		})
	}
}

func TestUndoAfterClear(t *testing.T) {
	c := New()
	press(c, "42C")
	if c.Display() != "0" {
		t.Fatalf("expected 0 after clear, got %q", c.Display())
	}
	c.Undo()
	if c.Display() != "42" {
		t.Errorf("expected 42 after undo, got %q", c.Display())
	}
}

func TestUndoOnEmptyHistory(t *testing.T) {
	c := New()
	c.Undo()
	if c.Display() != "0" {
		t.Errorf("undo on fresh calculator should keep 0, got %q", c.Display())
	}
}

func TestFormatResult(t *testing.T) {
	if got := FormatResult(2.5); got != "2.5" {
		t.Errorf("got %q, want 2.5", got)
	}
	if got := FormatResult(1e21); got != "1e+21" {
		t.Errorf("got %q, want 1e+21", got)
	}
}
