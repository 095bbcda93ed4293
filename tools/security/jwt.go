package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	errs "relaychat/tools/errs"
)

// Options controls signing and TTL.
type Options struct {
	Secret []byte        // HMAC secret (use ENV/KMS in production)
	Alg    string        // HS256/HS384/HS512 (default HS256)
	TTL    time.Duration // token lifetime (default 1h)
}

// Identity is the payload carried inside a credential. The realtime
// pipeline only reads it; issuing belongs to the auth service.
type Identity struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
}

func DefaultOptions(secret []byte) Options {
	return Options{Secret: secret, Alg: "HS256", TTL: time.Hour}
}

// Generate signs a credential for the given identity.
func Generate(opts Options, id Identity) (token string, expireAt time.Time, err error) {
	method, err := signingMethod(opts.Alg)
	if err != nil {
		return "", time.Time{}, err
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	now := time.Now()
	exp := now.Add(opts.TTL)

	claims := jwtlib.MapClaims{
		"user_id":  id.ID,
		"username": id.Username,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      exp.Unix(),
	}

	tok := jwtlib.NewWithClaims(method, claims)
	signed, err := tok.SignedString(opts.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Errors are coded: ErrTokenMissing / ErrTokenExpired / ErrTokenInvalid.
func Verify(opts Options, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errs.ErrTokenMissing
	}
	if _, err := signingMethod(opts.Alg); err != nil {
		return nil, err
	}
	parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (interface{}, error) {
		// HMAC family only
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg: %v", t.Header["alg"])
		}
		return opts.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, errs.ErrTokenExpired
		}
		return nil, errs.ErrTokenInvalid.WithDetail(err.Error())
	}
	if !parsed.Valid {
		return nil, errs.ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errs.ErrTokenInvalid.WithDetail("claims type mismatch")
	}
	id := Identity{}
	if v, ok := claims["user_id"].(string); ok {
		id.ID = v
	}
	if v, ok := claims["username"].(string); ok {
		id.Username = v
	}
	if id.Username == "" {
		return nil, errs.ErrTokenInvalid.WithDetail("username claim missing")
	}
	return &id, nil
}

func signingMethod(alg string) (jwtlib.SigningMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "HS256":
		return jwtlib.SigningMethodHS256, nil
	case "HS384":
		return jwtlib.SigningMethodHS384, nil
	case "HS512":
		return jwtlib.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported alg: %s (use HS256/HS384/HS512)", alg)
	}
}
