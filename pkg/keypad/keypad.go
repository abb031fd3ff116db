// Package keypad implements the button-driven calculator state machine:
// digit entry, a pending binary operator, equals, clear, and a bounded undo
// history. Arithmetic follows the expression engine's conventions, so
// division by zero produces NaN and the display shows "Error".
package keypad

import (
	"math"
	"strconv"
	"strings"
)

// ErrorDisplay is the display value shown for NaN results.
const ErrorDisplay = "Error"

// historyLimit bounds the undo stack.
const historyLimit = 50

// Calculator is the keypad state machine. It is not safe for concurrent use;
// each UI session owns one.
type Calculator struct {
	display string
	acc     float64
	pending string // pending binary operator, "" if none
	// fresh marks that the next digit starts a new entry, replacing the
	// display instead of appending to it.
	fresh   bool
	history []string
}

// New creates a calculator showing 0.
func New() *Calculator {
	return &Calculator{display: "0", fresh: true}
}

// Display returns the current display value.
func (c *Calculator) Display() string {
	return c.display
}

// Digit appends a digit (0-9) to the current entry.
func (c *Calculator) Digit(d int) {
	if d < 0 || d > 9 {
		return
	}
	c.remember()
	s := strconv.Itoa(d)
	if c.fresh || c.display == "0" {
		c.display = s
		c.fresh = false
		return
	}
	c.display += s
}

// Dot appends the decimal point, once per entry.
func (c *Calculator) Dot() {
	c.remember()
	if c.fresh {
		c.display = "0."
		c.fresh = false
		return
	}
	if !strings.Contains(c.display, ".") {
		c.display += "."
	}
}

// Negate flips the sign of the current entry.
func (c *Calculator) Negate() {
	c.remember()
	if c.display == "0" || c.display == ErrorDisplay {
		return
	}
	if strings.HasPrefix(c.display, "-") {
		c.display = c.display[1:]
	} else {
		c.display = "-" + c.display
	}
}

// Backspace removes the last character of the current entry.
func (c *Calculator) Backspace() {
	if c.fresh || c.display == ErrorDisplay {
		return
	}
	c.remember()
	if len(c.display) <= 1 || (len(c.display) == 2 && c.display[0] == '-') {
		c.display = "0"
		c.fresh = true
		return
	}
	c.display = c.display[:len(c.display)-1]
}

// Operator applies any pending operation and records op as pending. Chained
// operators without an intervening Equals fold left to right.
func (c *Calculator) Operator(op string) {
	switch op {
	case "+", "-", "*", "/", "^":
	default:
		return
	}
	c.remember()
	if c.pending != "" && !c.fresh {
		c.applyPending()
	} else {
		c.acc = c.value()
	}
	c.pending = op
	c.fresh = true
}

// Equals applies the pending operation and clears it.
func (c *Calculator) Equals() {
	if c.pending == "" {
		return
	}
	c.remember()
	c.applyPending()
	c.pending = ""
	c.fresh = true
}

// Clear resets everything except the undo history.
func (c *Calculator) Clear() {
	c.remember()
	c.display = "0"
	c.acc = 0
	c.pending = ""
	c.fresh = true
}

// Undo restores the previous display state, if any.
func (c *Calculator) Undo() {
	if len(c.history) == 0 {
		return
	}
	c.display = c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.fresh = false
	if c.display == "0" {
		c.fresh = true
	}
}

func (c *Calculator) applyPending() {
	v := c.value()
	switch c.pending {
	case "+":
		c.acc += v
	case "-":
		c.acc -= v
	case "*":
		c.acc *= v
	case "/":
		if v == 0 {
			c.acc = math.NaN()
		} else {
			c.acc /= v
		}
	case "^":
		c.acc = math.Pow(c.acc, v)
	}
	c.display = FormatResult(c.acc)
}

// value parses the display as the current operand. An Error display reads as
// NaN, so errors stay sticky across further operations.
func (c *Calculator) value() float64 {
	if c.display == ErrorDisplay {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(c.display, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (c *Calculator) remember() {
	c.history = append(c.history, c.display)
	if len(c.history) > historyLimit {
		c.history = c.history[1:]
	}
}

// FormatResult renders a result for display: NaN becomes ErrorDisplay,
// everything else formats with minimal digits.
func FormatResult(v float64) string {
	if math.IsNaN(v) {
		return ErrorDisplay
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
