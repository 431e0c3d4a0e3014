package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/constant"
	"hotel/shared/timezone"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaim     = errors.New("invalid token claim")
	ErrMissingHeader    = errors.New("authorization header is required")
	ErrMalformedHeader  = errors.New("authorization header must start with 'Bearer '")
	ErrUnknownTokenType = errors.New("unknown token type")
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"

	bearerPrefix = "Bearer "
	bearerType   = "Bearer"
)

// Claims carries the staff identity of a signed token.
type Claims struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role,omitempty"`
	TokenID  string    `json:"token_id"`
	Type     TokenType `json:"type"`
	IssuedAt time.Time `json:"iat"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JWT issues and verifies staff tokens.
type JWT interface {
	GenerateTokenPair(ctx context.Context, userID, email, role string) (*TokenPair, error)
	ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// signing holds the secret and lifetime of one token type.
type signing struct {
	secret []byte
	ttl    time.Duration
}

type Service struct {
	issuer  string
	signing map[TokenType]signing
	otel    otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) JWT {
	return &Service{
		issuer: cfg.App.Name,
		signing: map[TokenType]signing{
			AccessToken: {
				secret: []byte(cfg.JWT.AccessSecret),
				ttl:    time.Duration(cfg.JWT.AccessExpireMin) * time.Minute,
			},
			RefreshToken: {
				secret: []byte(cfg.JWT.RefreshSecret),
				ttl:    time.Duration(cfg.JWT.RefreshExpireMin) * time.Minute,
			},
		},
		otel: otl,
	}
}

func (s *Service) signingFor(tokenType TokenType) (signing, error) {
	sign, ok := s.signing[tokenType]
	if !ok {
		return signing{}, fmt.Errorf("%w: %s", ErrUnknownTokenType, tokenType)
	}

	return sign, nil
}

func (s *Service) GenerateTokenPair(ctx context.Context, userID, email, role string) (_ *TokenPair, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".jwt.GenerateTokenPair")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("staff.id", userID)

	now := timezone.Now()
	pair := &TokenPair{TokenType: bearerType}

	if pair.AccessToken, err = s.sign(userID, email, role, AccessToken, now); err != nil {
		return nil, err
	}

	if pair.RefreshToken, err = s.sign(userID, email, role, RefreshToken, now); err != nil {
		return nil, err
	}

	pair.ExpiresIn = int64(s.signing[AccessToken].ttl.Seconds())

	return pair, nil
}

func (s *Service) sign(userID, email, role string, tokenType TokenType, now time.Time) (string, error) {
	sign, err := s.signingFor(tokenType)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   userID,
		Email:    email,
		Role:     role,
		TokenID:  id,
		Type:     tokenType,
		IssuedAt: now,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sign.ttl)),
		},
	})

	signed, err := token.SignedString(sign.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return signed, nil
}

// ValidateToken parses tokenString with the secret of tokenType. Expired tokens
// return ErrExpiredToken, a token of another type returns ErrInvalidClaim.
func (s *Service) ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".jwt.ValidateToken")
	defer scope.End()

	sign, err := s.signingFor(tokenType)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return sign.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil, !token.Valid:
		return nil, ErrInvalidToken
	case claims.Type != tokenType:
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateToken(ctx, refreshToken, RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	return s.GenerateTokenPair(ctx, claims.UserID, claims.Email, claims.Role)
}

// ExtractTokenFromHeader returns the bearer token of an Authorization header.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok {
		return "", ErrMalformedHeader
	}

	return token, nil
}
