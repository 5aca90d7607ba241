// Copyright (c) 2026 Programando o Futuro. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away common body decoding patterns and the retrieval of the
request-scoped identity, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/apperr"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/constants"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/ctxutil"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/sec"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Identity extracts the authenticated session identity from the request context.

Returns nil if the request is anonymous.
*/
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the identity.

Returns:
  - *sec.Identity: The resolved session identity
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {

	// Get the resolved identity
	identity := ctxutil.GetIdentity(request.Context())

	// If the request is not authenticated, return an error
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return identity, nil
}

/*
SessionCookies reads the raw access and refresh tokens from the request's
cookie jar. Missing cookies yield empty strings.
*/
func SessionCookies(request *http.Request) (accessToken, refreshToken string) {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil {
		accessToken = cookie.Value
	}
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
		refreshToken = cookie.Value
	}
	return accessToken, refreshToken
}
