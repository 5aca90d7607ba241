// Copyright (c) 2026 Programando o Futuro. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/cookies"
	requestutil "github.com/caiomatenorio/programando-o-futuro-final/internal/platform/request"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/respond"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/validate"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements the authenticated user's account endpoints.
//
// # Cookie Hygiene
//
// Name and email live inside the access-token claims. After mutating either,
// the handler expires the access cookie so the very next request falls
// through to the refresh path and picks up fresh claims. The refresh cookie
// stays: the session itself is still valid.
type Handler struct {
	accountService *Service
	cookieWriter   *cookies.Writer
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, cookieWriter *cookies.Writer) *Handler {
	return &Handler{
		accountService: service,
		cookieWriter:   cookieWriter,
	}
}

// Routes returns a [chi.Router] with the account endpoints. The whole router
// is mounted behind the authentication gate; every handler can rely on a
// resolved identity.
//
// # Endpoints
//   - GET    /          : Current profile.
//   - PUT    /name      : Change display name.
//   - PUT    /email     : Change email address.
//   - PUT    /password  : Rotate password.
//   - DELETE /          : Permanently delete the account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getProfile)
	router.Put("/name", handler.updateName)
	router.Put("/email", handler.updateEmail)
	router.Put("/password", handler.updatePassword)
	router.Delete("/", handler.deleteAccount)

	return router
}

// # Request Payloads

type updateNameRequest struct {
	Name string `json:"name"`
}

type updateEmailRequest struct {
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

/*
GetProfile returns the caller's current account data.

GET /api/my-account

Response:
  - 200: User: Current profile, read fresh from storage
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateName changes the caller's display name.

PUT /api/my-account/name

Request:
  - Body: updateNameRequest (Name)

Response:
  - 200: User: Updated profile, access cookie expired
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) updateName(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateNameRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldName, input.Name).
		MaxLen(auth.FieldName, input.Name, 64)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateName(request.Context(), identity.UserID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookieWriter.ClearAccess(writer)
	respond.OK(writer, user)
}

/*
UpdateEmail changes the caller's email address.

PUT /api/my-account/email

Request:
  - Body: updateEmailRequest (Email)

Response:
  - 200: User: Updated profile, access cookie expired
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) updateEmail(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateEmailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateEmail(request.Context(), identity.UserID, input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookieWriter.ClearAccess(writer)
	respond.OK(writer, user)
}

/*
UpdatePassword rotates the caller's password.

PUT /api/my-account/password

Description: Requires the current password. Claims are untouched, so the
session cookies stay as they are.

Request:
  - Body: updatePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success message
  - 400: ErrInvalidJSON: Weak password or validation failure
  - 401: ErrInvalidCredentials: Current password is wrong
*/
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("current_password", input.CurrentPassword).
		Required("new_password", input.NewPassword).
		Password("new_password", input.NewPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.accountService.UpdatePassword(
		request.Context(),
		identity.UserID,
		input.CurrentPassword,
		input.NewPassword,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		auth.FieldMessage: "Password updated successfully",
	})
}

/*
DeleteAccount permanently removes the caller's account.

DELETE /api/my-account

Description: Requires the current password as confirmation. On success both
session cookies are expired; the cascade already destroyed every session row.

Request:
  - Body: deleteAccountRequest (Password)

Response:
  - 204: No Content: Account deleted, cookies expired
  - 401: ErrInvalidCredentials: Password is wrong
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input deleteAccountRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Password == "" {
		respond.Error(writer, request, validate.RequiredError(auth.FieldPassword, "This field is required"))
		return
	}

	err = handler.accountService.DeleteAccount(request.Context(), identity.UserID, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookieWriter.Clear(writer)
	respond.NoContent(writer)
}
