package request

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
)

var errWeakPassword = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")

// PasswordPolicy checks new passwords against a pattern. The pattern may use
// look-ahead, which RE2 does not support. A nil policy accepts everything.
type PasswordPolicy struct {
	exp *regexp2.Regexp
}

// NewPasswordPolicy compiles pattern. An empty pattern yields a nil policy.
func NewPasswordPolicy(pattern string) (*PasswordPolicy, error) {
	if pattern == "" {
		return nil, nil
	}

	exp, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("invalid password pattern -> %w", err)
	}

	return &PasswordPolicy{exp: exp}, nil
}

func (p *PasswordPolicy) Check(password string) error {
	if p == nil {
		return nil
	}

	ok, err := p.exp.MatchString(password)
	if err != nil {
		return fmt.Errorf("p.exp.MatchString -> %w", err)
	}
	if !ok {
		return errWeakPassword
	}

	return nil
}
