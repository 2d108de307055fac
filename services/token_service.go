package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"
	josejwt "gopkg.in/go-jose/go-jose.v2/jwt"

	"github.com/legal-sheba/legal-sheba-api/models"
)

// TokenConfig configures the bearer token codec.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	// TTL of issued tokens; zero issues tokens without an expiry.
	TTL time.Duration
}

// RoleClaims carries the role tag alongside the registered claims.
type RoleClaims struct {
	Role models.Role `json:"role"`
}

// Validate satisfies validator.CustomClaims; unknown roles are rejected.
func (c *RoleClaims) Validate(ctx context.Context) error {
	if !c.Role.Valid() {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	return nil
}

type issuedClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 bearer tokens that encode a Principal.
// There is no revocation: a token stays valid until it expires or the secret rotates.
type TokenCodec struct {
	cfg       TokenConfig
	validator *validator.Validator
	now       func() time.Time
}

// NewTokenCodec builds a codec. Issuer and audience are required by the verifier.
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}

	secret := []byte(cfg.Secret)
	v, err := validator.New(
		func(ctx context.Context) (interface{}, error) {
			return secret, nil
		},
		validator.HS256,
		cfg.Issuer,
		[]string{cfg.Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &RoleClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the token validator: %w", err)
	}

	return &TokenCodec{cfg: cfg, validator: v, now: time.Now}, nil
}

// Issue signs a token for p.
func (tc *TokenCodec) Issue(p models.Principal) (string, error) {
	if p.UserID == 0 || !p.Role.Valid() {
		return "", fmt.Errorf("cannot issue a token for principal %+v", p)
	}

	now := tc.now()
	claims := issuedClaims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(p.UserID), 10),
			Issuer:   tc.cfg.Issuer,
			Audience: jwt.ClaimStrings{tc.cfg.Audience},
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if tc.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(tc.cfg.TTL))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tc.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer, audience and expiry of token and
// returns the principal it encodes. Errors are ErrTokenExpired or ErrTokenInvalid.
func (tc *TokenCodec) Verify(ctx context.Context, token string) (models.Principal, error) {
	raw, err := tc.validator.ValidateToken(ctx, token)
	if err != nil {
		if errors.Is(err, josejwt.ErrExpired) {
			return models.Principal{}, ErrTokenExpired
		}
		return models.Principal{}, ErrTokenInvalid
	}

	claims, ok := raw.(*validator.ValidatedClaims)
	if !ok {
		return models.Principal{}, ErrTokenInvalid
	}
	roleClaims, ok := claims.CustomClaims.(*RoleClaims)
	if !ok {
		return models.Principal{}, ErrTokenInvalid
	}

	userID, err := strconv.ParseUint(claims.RegisteredClaims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return models.Principal{}, ErrTokenInvalid
	}

	return models.Principal{UserID: uint(userID), Role: roleClaims.Role}, nil
}
