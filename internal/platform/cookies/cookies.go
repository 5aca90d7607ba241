// Copyright (c) 2026 Programando o Futuro. All rights reserved.

/*
Package cookies centralizes the emission of the two session cookies.

The access cookie carries the short-lived signed token; the refresh cookie
carries the long-lived opaque secret. Both are HttpOnly and scoped to the
whole site. Production hardens them further (Secure, SameSite=Strict);
development relaxes to SameSite=Lax so local HTTP flows keep working.
*/
package cookies

import (
	"net/http"
	"time"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/constants"
)

// Environment exposes the single configuration bit this package needs.
type Environment interface {
	IsProduction() bool
}

// Writer stamps session cookies onto outgoing responses.
type Writer struct {
	environment   Environment
	accessMaxAge  int
	refreshMaxAge int
}

// NewWriter constructs a [Writer]. Max ages mirror the token lifetimes: the
// access cookie dies with the token, the refresh cookie with the session.
func NewWriter(environment Environment, accessTTL, refreshTTL time.Duration) *Writer {
	return &Writer{
		environment:   environment,
		accessMaxAge:  int(accessTTL.Seconds()),
		refreshMaxAge: int(refreshTTL.Seconds()),
	}
}

// Set writes both session cookies on the response.
//
// Cookies must be staged before the handler writes the response body, so the
// request gate (and the login handler) call this ahead of any payload write.
func (w *Writer) Set(writer http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(writer, w.build(constants.AccessTokenCookieName, accessToken, w.accessMaxAge))
	http.SetCookie(writer, w.build(constants.RefreshTokenCookieName, refreshToken, w.refreshMaxAge))
}

// Clear expires both session cookies (logout, account deletion).
func (w *Writer) Clear(writer http.ResponseWriter) {
	http.SetCookie(writer, w.build(constants.AccessTokenCookieName, "", -1))
	http.SetCookie(writer, w.build(constants.RefreshTokenCookieName, "", -1))
}

// ClearAccess expires only the access cookie.
//
// Profile mutations (name, email, password) leave the session valid but make
// the claims baked into outstanding access tokens stale; dropping the cookie
// forces the next request through the refresh path, which re-reads the user.
func (w *Writer) ClearAccess(writer http.ResponseWriter) {
	http.SetCookie(writer, w.build(constants.AccessTokenCookieName, "", -1))
}

// build assembles a cookie with the shared security attributes.
func (w *Writer) build(name, value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if w.environment.IsProduction() {
		sameSite = http.SameSiteStrictMode
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.SessionCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   w.environment.IsProduction(),
		SameSite: sameSite,
	}
}
