package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const AuthTokenTTL = 30 * 24 * time.Hour

var (
	ErrAuthTokenMissing = errors.New("missing auth token")
	ErrAuthTokenInvalid = errors.New("invalid auth token")
	ErrAuthTokenExpired = errors.New("expired auth token")
)

type AuthClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

func BuildAuthToken(secretKey []byte, userID uint, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		ttl = AuthTokenTTL
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := AuthClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

func ParseAuthToken(secretKey []byte, rawToken string, now time.Time) (*AuthClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrAuthTokenMissing
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secretKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrAuthTokenExpired
	}
	if err != nil || !token.Valid {
		return nil, ErrAuthTokenInvalid
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(now) {
		return nil, ErrAuthTokenExpired
	}
	if claims.UserID == 0 {
		return nil, ErrAuthTokenInvalid
	}
	return claims, nil
}
