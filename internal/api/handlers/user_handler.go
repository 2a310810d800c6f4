package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/account-api/internal/auth"
	"github.com/isdelr/account-api/internal/models"
	"github.com/isdelr/account-api/internal/services"
	"github.com/rs/zerolog/log"
)

// Application status flags carried in response bodies.
const (
	StatusOK       = 0
	StatusConflict = 1
	StatusInvalid  = -1
)

// UserHandler handles HTTP requests for account management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// SignUpPayload defines the structure for registration requests.
type SignUpPayload struct {
	FirstName string `json:"firstName" validate:"required" msg:"Enter Valid fName"`
	LastName  string `json:"lastName" validate:"required" msg:"Enter valid lastName"`
	Email     string `json:"email" validate:"required" msg:"Enter valid email"`
	Password  string `json:"password" validate:"min=6,maxbytes=72" msg:"Enter valid password"`
	Age       *int   `json:"age"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email" validate:"required" msg:"Enter valid email"`
	Password string `json:"password" validate:"required" msg:"Enter valid password"`
}

// ChangePasswordPayload defines the structure for password change requests.
type ChangePasswordPayload struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdateUserPayload defines the structure for profile update requests.
type UpdateUserPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
	Gender    string `json:"gender"`
	Age       *int   `json:"age"`
}

type statusResponse struct {
	Status int          `json:"status"`
	Errors []FieldError `json:"errors,omitempty"`
}

type signUpResponse struct {
	Status int         `json:"status"`
	Data   models.User `json:"data"`
}

type loginResponse struct {
	Status int               `json:"status"`
	Token  string            `json:"Token"`
	User   models.PublicUser `json:"User"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}

// SignUp handles new user registration.
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var payload SignUpPayload
	if err := decode(r, &payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if errs := validationErrors(payload); len(errs) > 0 {
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: StatusInvalid, Errors: errs})
		return
	}

	user, err := h.service.SignUp(r.Context(), services.SignUpInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
		Age:       payload.Age,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeJSON(w, http.StatusNotFound, statusResponse{Status: StatusConflict})
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeJSON(w, http.StatusNotFound, errorResponse{Error: internalError})
		return
	}

	writeJSON(w, http.StatusOK, signUpResponse{Status: StatusOK, Data: user})
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := decode(r, &payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if errs := validationErrors(payload); len(errs) > 0 {
		writeJSON(w, http.StatusNotFound, statusResponse{Status: StatusInvalid, Errors: errs})
		return
	}

	res, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			writeJSON(w, http.StatusBadRequest, statusResponse{Status: StatusConflict})
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to log in")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: internalError})
		return
	}

	w.Header().Set(auth.TokenHeader, res.Token)
	writeJSON(w, http.StatusOK, loginResponse{
		Status: StatusOK,
		Token:  res.Token,
		User:   res.User.Public(),
	})
}

// ChangePassword handles changing the authenticated user's password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user ID from context")
		writeJSON(w, http.StatusInternalServerError, msgResponse{Msg: internalError})
		return
	}

	var payload ChangePasswordPayload
	if err := decode(r, &payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.ChangePassword(r.Context(), userID, payload.OldPassword, payload.NewPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, msgResponse{Msg: "Password updated successfully."})
	case errors.Is(err, services.ErrWrongPassword):
		writeJSON(w, http.StatusBadRequest, msgResponse{Msg: "Your password is wrong."})
	case errors.Is(err, services.ErrPasswordTooShort):
		writeJSON(w, http.StatusBadRequest, msgResponse{Msg: "Password must be at least 6 characters long."})
	case errors.Is(err, services.ErrPasswordTooLong):
		writeJSON(w, http.StatusBadRequest, msgResponse{Msg: "Password must be at most 72 bytes long."})
	default:
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to change password")
		writeJSON(w, http.StatusInternalServerError, msgResponse{Msg: internalError})
	}
}

// UpdateUser handles updating the authenticated user's profile.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user ID from context")
		writeJSON(w, http.StatusInternalServerError, msgResponse{Msg: internalError})
		return
	}

	var payload UpdateUserPayload
	if err := decode(r, &payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.UpdateProfile(r.Context(), userID, models.Profile{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Avatar:    payload.Avatar,
		Gender:    payload.Gender,
		Age:       payload.Age,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, msgResponse{Msg: "Profile updated successfully."})
	case errors.Is(err, services.ErrFirstNameRequired):
		writeJSON(w, http.StatusBadRequest, msgResponse{Msg: "Please add your First Name."})
	case errors.Is(err, services.ErrLastNameRequired):
		writeJSON(w, http.StatusBadRequest, msgResponse{Msg: "Please add your Last Name."})
	default:
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update user")
		writeJSON(w, http.StatusInternalServerError, msgResponse{Msg: internalError})
	}
}

// Home serves the greeting page.
func (h *UserHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<h1>Hello</h1>"))
}
