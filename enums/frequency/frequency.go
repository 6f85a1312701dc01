package frequency

import (
	"fmt"
	"strings"
)

// Type is how often a loan payment falls due.
type Type int

const (
	MONTHLY Type = iota
	BIWEEKLY
	WEEKLY
	QUARTERLY
	ANNUALLY
)

var periodsPerYear = map[Type]int{
	MONTHLY:   12,
	BIWEEKLY:  26,
	WEEKLY:    52,
	QUARTERLY: 4,
	ANNUALLY:  1,
}

var names = map[Type]string{
	MONTHLY:   "monthly",
	BIWEEKLY:  "biweekly",
	WEEKLY:    "weekly",
	QUARTERLY: "quarterly",
	ANNUALLY:  "annually",
}

// Value returns the number of payment periods per year, or 0 for an unknown type.
func (t Type) Value() int {
	return periodsPerYear[t]
}

func (t Type) String() string {
	return names[t]
}

func (t Type) IsValid() bool {
	_, ok := periodsPerYear[t]
	return ok
}

// Parse maps a name such as "biweekly" to its Type. An empty string is MONTHLY.
func Parse(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MONTHLY, nil
	}
	for t, name := range names {
		if name == s {
			return t, nil
		}
	}
	return MONTHLY, fmt.Errorf("unknown payment frequency %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("unknown payment frequency %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
