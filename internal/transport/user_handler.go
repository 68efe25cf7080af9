package transport

import (
	"net/http"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RoleRequest is the admin payload that changes a user's role
type RoleRequest struct {
	Role domain.Role `json:"role"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Picture   string      `json:"picture,omitempty"`
	Role      domain.Role `json:"role"`
}

func profileOf(user *domain.User) UserProfile {
	return UserProfile{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Picture:   user.Picture,
		Role:      user.Role,
	}
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService  service.UserService
	logger       *zap.Logger
	secureCookie bool
	cookieMaxAge time.Duration
}

// NewUserHandler creates a new UserHandler. The session cookie lives for
// sessionTTL and is only sent over HTTPS when secureCookie is set.
func NewUserHandler(userService service.UserService, logger *zap.Logger, sessionTTL time.Duration, secureCookie bool) *UserHandler {
	if sessionTTL <= 0 {
		sessionTTL = service.AccessTokenExpiration
	}
	return &UserHandler{
		userService:  userService,
		logger:       logger,
		secureCookie: secureCookie,
		cookieMaxAge: sessionTTL,
	}
}

// RegisterRoutes registers all user routes. authRequired rejects requests
// without a token, rateLimit guards the credential endpoints.
func (h *UserHandler) RegisterRoutes(r chi.Router, authRequired, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rateLimit)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})
		r.Post("/refresh", h.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authRequired)
			r.Post("/logout", h.Logout)
			r.Get("/profile", h.GetProfile)
		})
	})

	r.Put("/api/admin/users/{userId}/role", h.UpdateRole)
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Registration validation failed", zap.Error(err))
		respondDecodeError(w, err)
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondServiceError(w, h.logger, err, "register user")
		return
	}

	h.logger.Info("User registered successfully", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, profileOf(user))
}

// Login authenticates the user, returns both tokens and sets the session cookie
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		respondDecodeError(w, err)
		return
	}

	accessToken, refreshToken, user, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))
		respondServiceError(w, h.logger, err, "login")
		return
	}

	h.setSessionCookie(w, accessToken, h.cookieMaxAge)

	h.logger.Info("User logged in successfully", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         profileOf(user),
	})
}

// Logout revokes the refresh token and clears the session cookie
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.logger.Debug("Logout decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.Logout(r.Context(), req.RefreshToken); err != nil {
		respondServiceError(w, h.logger, err, "logout")
		return
	}

	h.setSessionCookie(w, "", -1)

	h.logger.Info("User logged out successfully")
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// RefreshToken handles token refresh
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Refresh token validation failed", zap.Error(err))
		respondDecodeError(w, err)
		return
	}

	newAccessToken, err := h.userService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Debug("Token refresh failed", zap.Error(err))
		respondServiceError(w, h.logger, err, "refresh token")
		return
	}

	h.setSessionCookie(w, newAccessToken, h.cookieMaxAge)

	h.logger.Info("Token refreshed successfully")
	middleware.RespondWithJSON(w, http.StatusOK, RefreshResponse{AccessToken: newAccessToken})
}

// GetProfile returns the profile of the authenticated caller
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "get user profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profileOf(user))
}

// UpdateRole lets an admin change another user's role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	userID, ok := uuidParam(w, r, "userId")
	if !ok {
		return
	}

	var req RoleRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateRole(r.Context(), session, userID, req.Role)
	if err != nil {
		respondServiceError(w, h.logger, err, "update role")
		return
	}

	h.logger.Info("User role updated",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, profileOf(user))
}

func (h *UserHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
