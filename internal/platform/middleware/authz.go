// Copyright (c) 2026 Programando o Futuro. All rights reserved.

// Package middleware provides the HTTP middleware chain for the API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This file implements the session
// gate: cookie extraction, session validation, identity publication, and
// rotated-cookie emission.
package middleware

import (
	"context"
	"net/http"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/apperr"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/cookies"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/ctxutil"
	requestutil "github.com/caiomatenorio/programando-o-futuro-final/internal/platform/request"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/respond"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/sec"
)

// SessionValidator defines the interface needed to validate sessions in middleware.
//
// # Why an interface?
//
// Defining SessionValidator here decouples the middleware from the `auth`
// service implementation, allowing us to easily inject stubs during unit
// testing.
type SessionValidator interface {
	// ValidateSession resolves an identity from the provided tokens. If the
	// resolution rotated the session, the returned pair carries the fresh
	// tokens that must be sent back to the client.
	ValidateSession(ctx context.Context, accessToken, refreshToken string) (*sec.Identity, *sec.TokenPair, error)
}

// Authenticate extracts session cookies and resolves the caller's identity.
//
// # Flow
//  1. Read the access/refresh token cookies from the incoming request.
//  2. If both are absent, the request proceeds as anonymous.
//  3. Otherwise validate via [SessionValidator]: the access token is the
//     I/O-free fast path; the refresh token is the recovery path and rotates
//     the session.
//  4. On success, publish [*sec.Identity] to the request context and, if the
//     session was rotated, stage the new token pair as response cookies
//     before any handler writes.
//  5. On failure, proceed as anonymous — [RequireAuth] turns that into a 401
//     on protected routes.
func Authenticate(validator SessionValidator, cookieWriter *cookies.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			accessToken, refreshToken := requestutil.SessionCookies(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if accessToken == "" && refreshToken == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Validation ─────────────────────────────────────────
			identity, rotated, err := validator.ValidateSession(request.Context(), accessToken, refreshToken)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Cookie Rotation ────────────────────────────────────────────
			// Cookies are headers; they must be staged before the handler
			// starts writing the response body.
			if rotated != nil {
				cookieWriter.Set(writer, rotated.AccessToken, rotated.RefreshToken)
			}

			// ── 4. Identity Publication ───────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. Login, registration,
// and the auth-status probe are mounted outside this gate.
//
// # Flow
//  1. Check if [*sec.Identity] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized before any handler runs.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
