package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/studyboosters/backend/internal/model"
)

const AuthCookieName = "auth_token"

var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies HS256 session tokens carrying the principal.
type TokenService struct {
	secret       []byte
	expiry       time.Duration
	isProduction bool
}

func NewTokenService(secret string, expiry time.Duration, isProduction bool) *TokenService {
	return &TokenService{
		secret:       []byte(secret),
		expiry:       expiry,
		isProduction: isProduction,
	}
}

func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

func (s *TokenService) Issue(user model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":     user.ID,
		"roll_number": user.RollNumber,
		"role":        string(user.Role),
		"exp":         now.Add(s.expiry).Unix(),
		"iat":         now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (*model.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	rollNumber, _ := claims["roll_number"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || rollNumber == "" {
		return nil, fmt.Errorf("%w: missing subject claims", ErrInvalidToken)
	}

	return &model.Principal{
		UserID:     userID,
		RollNumber: rollNumber,
		Role:       model.Role(role),
	}, nil
}

func (s *TokenService) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  time.Now().Add(s.expiry),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *TokenService) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
