// Copyright (c) 2026 Programando o Futuro. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and the logic for
registration, login, session validation, and sign-out.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.

# Session Model

Every login creates exactly one database-backed session carrying a long-lived
opaque refresh token. The short-lived access token (a signed JWT) is derived
from the session but never stored: requests presenting a valid access token
are authenticated without touching the database. When the access token lapses,
the refresh token rotates the session IN PLACE — same row, same ID, new
secret — under a row-level lock so concurrent refreshes serialize cleanly.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session represents an active refresh-token session.
//
// The RefreshToken column stores the opaque secret itself; it is unique across
// all rows so a presented token resolves to at most one session.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"` // The opaque refresh secret. Omitted for security.
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsExpired reports whether the session has passed its expiration instant.
//
// A session is expired strictly after ExpiresAt: at the exact instant it is
// still valid.
func (session *Session) IsExpired(now time.Time) bool {
	return now.After(session.ExpiresAt)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldUser     = "user"
	FieldMessage  = "message"
)
