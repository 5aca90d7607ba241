// Copyright (c) 2026 Programando o Futuro. All rights reserved.

/*
HTTP delivery layer for the authentication domain.

It implements the gateway for the session lifecycle — from account creation to
login, the authentication probe, and sign-out.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Session tokens travel exclusively in HttpOnly cookies; response
    bodies never carry them.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, cookies, JSON).
*/

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/cookies"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/middleware"
	requestutil "github.com/caiomatenorio/programando-o-futuro-final/internal/platform/request"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/respond"
	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService  *Service
	cookieWriter *cookies.Writer
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, cookieWriter *cookies.Writer) *Handler {
	return &Handler{
		authService:  service,
		cookieWriter: cookieWriter,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and establishes a session.
//   - GET  /status   : Reports whether the caller is authenticated.
//   - POST /logout   : Destroys the caller's session (protected).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Get("/status", handler.status)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /api/auth/register

Description: Validates input, checks for email conflicts, and persists a new
user profile. Registration does not log the user in; the client follows up
with a login call.

Request:
  - Body: registerRequest (Name, Email, Password)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 64).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		Password(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/auth/login

Description: Verifies credentials and stages both session cookies (signed
access token, opaque refresh token) on the response. Tokens never appear in
the body.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: User: Authenticated user profile, cookies staged
  - 401: ErrInvalidCredentials: Unknown email or wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookieWriter.Set(writer, session.Tokens.AccessToken, session.Tokens.RefreshToken)
	respond.OK(writer, session.User)
}

/*
Status reports whether the request carries a live session.

GET /api/auth/status

Description: A cheap probe for frontends to branch on. Anonymous callers get
200 with authenticated=false, never a 401.

Response:
  - 200: {"authenticated": bool}
*/
func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]bool{
		"authenticated": requestutil.Identity(request) != nil,
	})
}

/*
Logout terminates the current user session.

POST /api/auth/logout

Description: Deletes the caller's session row and expires both session
cookies on the client.

Response:
  - 204: No Content: Session terminated
  - 401: ErrUnauthorized: No live session to terminate
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), identity.SessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookieWriter.Clear(writer)
	respond.NoContent(writer)
}
