package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Symbol is a canonical (uppercase) currency ticker such as "BTC".
type Symbol string

const MaxSymbolLen = 10

var symbolRe = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// NormalizeSymbol trims and uppercases s and checks it is a well-formed ticker.
func NormalizeSymbol(s string) (Symbol, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if !symbolRe.MatchString(up) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	return Symbol(up), nil
}

func (s Symbol) String() string { return string(s) }

// PrincipalID identifies the authenticated user performing a call.
type PrincipalID string
