package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/localconnect/catalog-manager/internal/entity"
)

const (
	subjectClaim = "sub"
	roleClaim    = "role"
)

// NewAccountToken issues a token carrying the account id as subject and its role.
func NewAccountToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, acc entity.Account) (string, error) {
	claims := map[string]interface{}{
		"exp":        time.Now().Add(ttl).Unix(),
		subjectClaim: strconv.Itoa(acc.Id),
		roleClaim:    string(acc.Role),
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("can't encode token: %w", err)
	}
	return ts, nil
}

// VerifyAccount verifies a raw token and returns its account.
func VerifyAccount(jwtAuth *jwtauth.JWTAuth, token string) (entity.Account, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return entity.Account{}, err
	}
	claims := map[string]interface{}{
		subjectClaim: t.Subject(),
	}
	if role, ok := t.PrivateClaims()[roleClaim]; ok {
		claims[roleClaim] = role
	}
	return AccountFromClaims(claims)
}

// AccountFromClaims reads the account out of verified token claims.
func AccountFromClaims(claims map[string]interface{}) (entity.Account, error) {
	sub, _ := claims[subjectClaim].(string)
	id, err := strconv.Atoi(sub)
	if err != nil || id <= 0 {
		return entity.Account{}, fmt.Errorf("bad subject claim %q", sub)
	}
	role, _ := claims[roleClaim].(string)
	if !entity.IsValidRole(role) {
		return entity.Account{}, fmt.Errorf("bad role claim %q", role)
	}
	return entity.Account{
		Id:   id,
		Role: entity.Role(role),
	}, nil
}

const defaultTokenTTL = 24 * time.Hour

// Config holds the token settings shared with the issuing auth service.
type Config struct {
	JWTSecret string `mapstructure:"jwtSecret"`
	TokenTTL  string `mapstructure:"tokenTTL"`
}

// New builds an HS256 verifier from the config.
func New(c *Config) (*jwtauth.JWTAuth, time.Duration, error) {
	if c.JWTSecret == "" {
		return nil, 0, fmt.Errorf("jwt secret is empty")
	}
	ttl := defaultTokenTTL
	if c.TokenTTL != "" {
		d, err := time.ParseDuration(c.TokenTTL)
		if err != nil {
			return nil, 0, fmt.Errorf("bad token ttl %q: %w", c.TokenTTL, err)
		}
		ttl = d
	}
	return jwtauth.New("HS256", []byte(c.JWTSecret), nil), ttl, nil
}
