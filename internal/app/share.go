package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var (
	ErrShareUnavailable  = errors.New("sharing is not configured")
	ErrInvalidShareToken = errors.New("invalid share token")
)

const shareScope = "view"

// ShareService issues signed read-only links to a game.
type ShareService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewShareService(secret, issuer string, ttl time.Duration) *ShareService {
	return &ShareService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueToken signs a view token for the game owned by ownerID.
func (s *ShareService) IssueToken(ownerID, gameID string) (string, error) {
	if s == nil || s.secret == "" || s.issuer == "" {
		return "", ErrShareUnavailable
	}
	if ownerID == "" || gameID == "" {
		return "", fmt.Errorf("owner and game are required")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.issuer,
		"sub":   ownerID,
		"gid":   gameID,
		"scope": shareScope,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks a view token and returns the game it grants access to.
func (s *ShareService) Verify(tokenString string) (ownerID, gameID string, err error) {
	if s == nil || s.secret == "" || s.issuer == "" {
		return "", "", ErrShareUnavailable
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidShareToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidShareToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return "", "", fmt.Errorf("%w: unexpected issuer", ErrInvalidShareToken)
	}
	if scope, _ := claims["scope"].(string); scope != shareScope {
		return "", "", fmt.Errorf("%w: unexpected scope", ErrInvalidShareToken)
	}
	ownerID, _ = claims["sub"].(string)
	gameID, _ = claims["gid"].(string)
	if ownerID == "" || gameID == "" {
		return "", "", fmt.Errorf("%w: missing subject", ErrInvalidShareToken)
	}
	return ownerID, gameID, nil
}
