package security

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Options controls signing algorithm and token lifetime.
type Options struct {
	Secret []byte        // HMAC key, from env in production
	Alg    string        // HS256/HS384/HS512, default HS256
	TTL    time.Duration // default 72h
}

func DefaultOptions(secret []byte) Options {
	return Options{Secret: secret, Alg: "HS256", TTL: 72 * time.Hour}
}

type Claims struct {
	UserID string
	Email  string
	Expiry time.Time
}

// Generate signs a token for the given user.
func Generate(opts Options, userID, email string) (string, time.Time, error) {
	method, err := signingMethod(opts.Alg)
	if err != nil {
		return "", time.Time{}, err
	}
	if opts.TTL <= 0 {
		opts.TTL = 72 * time.Hour
	}
	now := time.Now()
	exp := now.Add(opts.TTL)

	claims := jwtlib.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
	}
	if email != "" {
		claims["email"] = email
	}

	signed, err := jwtlib.NewWithClaims(method, claims).SignedString(opts.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses and validates a token, returning the claims we care about.
func Verify(opts Options, token string) (*Claims, error) {
	method, err := signingMethod(opts.Alg)
	if err != nil {
		return nil, err
	}

	parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (interface{}, error) {
		if t.Method.Alg() != method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return opts.Secret, nil
	}, jwtlib.WithValidMethods([]string{method.Alg()}))
	if err != nil {
		return nil, err
	}

	mc, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	email, _ := mc["email"].(string)

	out := &Claims{UserID: sub, Email: email}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.Expiry = exp.Time
	}
	return out, nil
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
		return nil, fmt.Errorf("unsupported alg %q", alg)
	}
}
