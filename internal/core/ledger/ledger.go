// Package ledger names the two mutually exclusive books a transaction can belong to.
package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Type string

const (
	Income  Type = "Income"
	Expense Type = "Expense"
)

var ErrUnknownType = fmt.Errorf("ledger type must be %q or %q", Income, Expense)

// ParseType accepts the type in any letter case.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", ErrUnknownType
}

func (t Type) Valid() bool {
	return t == Income || t == Expense
}

func (t Type) String() string {
	return string(t)
}

// All returns both ledgers in display order.
func All() []Type {
	return []Type{Income, Expense}
}

// UnmarshalJSON normalizes the letter case of known types. Unknown values are kept
// as sent so validation can report them.
func (t *Type) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if parsed, err := ParseType(s); err == nil {
		*t = parsed
		return nil
	}
	*t = Type(s)
	return nil
}
