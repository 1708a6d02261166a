package payment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrAuthenticationRequired is returned when an anonymous actor invokes a
// reconciliation operation.
var ErrAuthenticationRequired = errors.New("authentication required")

// ErrNotImplemented marks reconciliation operations the API deliberately does
// not support; payments are registered through the recorder instead.
var ErrNotImplemented = errors.New("operation not implemented")

// InvalidStatusError reports an entity whose status blocks a reconciliation
// transition.
type InvalidStatusError struct {
	Entity  string
	Label   string
	Current string
	Allowed []string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("%s %s is %s, expected one of: %s",
		e.Entity, e.Label, e.Current, strings.Join(e.Allowed, ", "))
}

// AmountMismatchError reports a payment whose amount does not equal the total
// owed by its linked invoices and bills.
type AmountMismatchError struct {
	Label    string
	Expected float64
	Payed    float64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("payment %s amount %s does not match expected amount %s",
		e.Label, formatAmount(e.Payed), formatAmount(e.Expected))
}

// formatAmount renders a monetary amount without trailing zeros but always
// with a decimal part, so 2 becomes "2.0" and 91.5 stays "91.5".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
