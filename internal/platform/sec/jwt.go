// Copyright (c) 2026 Programando o Futuro. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the auth package's TokenProvider interface.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the SessionID, UserID, Name, and Email directly inside the
// JWT, the request gate can reconstruct the active identity WITHOUT querying
// the database on every single API request. The access-token path is the hot
// path: pure CPU-bound signature verification, no I/O.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
	Name      string `json:"nam"`
	Email     string `json:"eml"`
}

// Identity is the request-scoped view of an authenticated caller.
//
// It is resolved once per request (from a verified access token or a
// refreshed session), published to the request context, and discarded when
// the request ends. It is never shared across requests.
type Identity struct {
	SessionID string `json:"-"`
	UserID    string `json:"-"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// Identity converts verified claims into a request-scoped [Identity].
func (claims *AuthClaims) Identity() *Identity {
	return &Identity{
		SessionID: claims.SessionID,
		UserID:    claims.UserID,
		Name:      claims.Name,
		Email:     claims.Email,
	}
}

// TokenService handles generation and verification of JWT tokens using HS256.
type TokenService struct {
	secretKey  []byte
	issuer     string
	timeToLive time.Duration
}

// NewTokenService creates a new TokenService signing with the given shared secret.
func NewTokenService(secretKey, issuer string, timeToLive time.Duration) (*TokenService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("sec: JWT secret key must not be empty")
	}
	if timeToLive <= 0 {
		return nil, fmt.Errorf("sec: access token TTL must be positive")
	}

	return &TokenService{
		secretKey:  []byte(secretKey),
		issuer:     issuer,
		timeToLive: timeToLive,
	}, nil
}

// GenerateAccessToken creates a new signed access token bound to a session.
//
// The token is a pure function of its inputs and the current time. The server
// keeps no copy; it lives only in transit and in the client's cookie jar.
func (service *TokenService) GenerateAccessToken(sessionID, userID, name, email string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.timeToLive)),
		},
		SessionID: sessionID,
		UserID:    userID,
		Name:      name,
		Email:     email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secretKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// Malformed, tampered, and expired tokens all fail through the same return
// path; callers must not distinguish these cases to the client.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}

// TimeToLive returns the configured access-token lifetime.
func (service *TokenService) TimeToLive() time.Duration {
	return service.timeToLive
}
