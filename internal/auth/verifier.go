package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Identity describes the authenticated caller extracted from a verified token.
type Identity struct {
	UserID string
	Roles  []string
}

// Verifier verifies bearer tokens issued by the external identity service.
// Tokens are HS256-signed and carry the user id in the subject claim plus an
// optional "roles" claim.
type Verifier struct {
	Secret    []byte
	Validator TokenValidator
	Now       func() time.Time
}

// Verify parses and validates the raw token and returns the caller identity.
func (v Verifier) Verify(raw string) (Identity, error) {
	if len(v.Secret) == 0 {
		return Identity{}, errors.New("auth: verifier secret not configured")
	}

	msg, err := jws.Parse([]byte(raw))
	if err != nil {
		return Identity{}, fmt.Errorf("auth: parse token: %w", err)
	}
	var algorithm jwa.SignatureAlgorithm
	if sigs := msg.Signatures(); len(sigs) > 0 {
		algorithm = sigs[0].ProtectedHeaders().Algorithm()
	}

	tok, err := jwt.Parse([]byte(raw), jwt.WithKey(jwa.HS256, v.Secret), jwt.WithValidate(false))
	if err != nil {
		return Identity{}, fmt.Errorf("auth: verify token: %w", err)
	}

	now := time.Now()
	if v.Now != nil {
		now = v.Now()
	}
	validator := v.Validator
	if validator.Algorithm == "" {
		validator.Algorithm = jwa.HS256
	}
	if err := validator.Validate(tok, algorithm, now); err != nil {
		return Identity{}, err
	}

	sub := tok.Subject()
	if sub == "" {
		return Identity{}, errors.New("auth: token missing subject")
	}

	return Identity{UserID: sub, Roles: rolesClaim(tok)}, nil
}

func rolesClaim(tok jwt.Token) []string {
	raw, ok := tok.Get("roles")
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		roles := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				roles = append(roles, s)
			}
		}
		return roles
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
