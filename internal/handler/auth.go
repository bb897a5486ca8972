package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/internal/service"
)

// AuthHandler handles signup and login
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// SignupRequest represents signup request
type SignupRequest struct {
	Email            string  `json:"email" validate:"notblank,email" msg:"notblank=Email is required;email=Invalid email format"`
	FirstName        string  `json:"firstName" validate:"notblank" msg:"notblank=First name is required"`
	LastName         string  `json:"lastName" validate:"notblank" msg:"notblank=Last name is required"`
	OrganizationName *string `json:"organizationName"`
	Phone            *string `json:"phone" validate:"required,max=20" msg:"required=Phone number is required;max=Phone number must not exceed 20 characters"`
	Type             string  `json:"type" validate:"required,usertype" msg:"required=User type is required;usertype=User type is invalid"`
	Password         string  `json:"password" validate:"notblank" msg:"notblank=Password is required"`
}

// SignupResponse echoes the registered login name
type SignupResponse struct {
	UserName string `json:"userName"`
	Message  string `json:"message"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" validate:"notblank,email" msg:"notblank=Email is required;email=Invalid email format"`
	Password string `json:"password" validate:"notblank" msg:"notblank=Password is required"`
}

// LoginResponse carries the session token and the caller's profile
type LoginResponse struct {
	Token     string `json:"token"`
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Type      string `json:"type"`
}

// Signup handles POST /api/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.authService.Signup(r.Context(), service.SignupInput{
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		OrganizationName: req.OrganizationName,
		Phone:            *req.Phone,
		Role:             domain.Role(req.Type),
		Password:         req.Password,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, SignupResponse{UserName: user.Email, Message: "User registered successfully"})
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     result.Token,
		UserID:    result.UserID,
		Email:     result.Email,
		FirstName: result.FirstName,
		LastName:  result.LastName,
		Type:      string(result.Role),
	})
}
