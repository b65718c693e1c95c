package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	internal_errors "github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/golang-jwt/jwt/v5"
)

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*jwt.Token, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = user.Id
	claims["email"] = user.Email
	claims["role"] = string(user.Role)
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign jwt", "error", err)
		return "", errors.New("Can't create token")
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal_errors.Unauthorized("Unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal_errors.Unauthorized("Token expired")
		}
		logger.Log.Debug("jwt decode failed", "error", err)
		return nil, internal_errors.Unauthorized("Invalid token signature")
	}

	if !token.Valid {
		return nil, internal_errors.Unauthorized("Invalid access token")
	}

	return token, nil
}

// Claims extracts the identity fields set by NewToken.
func Claims(token *jwt.Token) (domain.User, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.User{}, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return domain.User{}, errors.New("uid claim missing")
	}
	email, ok := claims["email"].(string)
	if !ok {
		return domain.User{}, errors.New("email claim missing")
	}
	role, ok := claims["role"].(string)
	if !ok || !domain.Role(role).Valid() {
		return domain.User{}, errors.New("role claim missing")
	}
	return domain.User{Id: int64(uid), Email: email, Role: domain.Role(role)}, nil
}
