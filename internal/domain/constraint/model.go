package constraint

import (
	"fmt"
	"strings"
)

// Kind says whether two participants must or must not share a team.
type Kind string

const (
	KindTogether Kind = "TOG"
	KindSeparate Kind = "SEP"
	KindUnset    Kind = "ND"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindTogether || k == KindSeparate || k == KindUnset
}

// Constraint is a pairwise placement rule. Pairs are stored with the lower
// participant ID first.
type Constraint struct {
	ID     int64 `json:"id"`
	First  int64 `json:"first"`
	Second int64 `json:"second"`
	Kind   Kind  `json:"kind"`
}

// Pair is an unordered participant pair in canonical order.
type Pair struct {
	A, B int64
}

// NewPair returns the canonical pair for a and b.
func NewPair(a, b int64) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Pair returns the canonical pair of c.
func (c Constraint) Pair() Pair {
	return NewPair(c.First, c.Second)
}

// ParseKind accepts the stored codes (TOG, SEP, ND) and the words together,
// separate and none, in any case. Empty means none.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "together", "tog":
		return KindTogether, nil
	case "separate", "sep":
		return KindSeparate, nil
	case "none", "nd", "":
		return KindUnset, nil
	}
	return "", fmt.Errorf("%w: unknown constraint kind %q", ErrInvalidInput, s)
}
