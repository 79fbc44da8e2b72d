package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	auth2 "github.com/go-pkgz/auth/v2"
	"github.com/go-pkgz/auth/v2/avatar"
	"github.com/go-pkgz/auth/v2/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/icco/recall"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "recall-app"
	tokenAudience = "recall"

	minPasswordLength = 8
)

func newAuthService(cfg Config) *auth2.Service {
	secret := cfg.JWTSecret
	service := auth2.NewService(auth2.Opts{
		SecretReader:  token.SecretFunc(func(aud string) (string, error) { return secret, nil }),
		TokenDuration: cfg.TokenDuration,
		Issuer:        tokenIssuer,
		URL:           cfg.AuthURL,
		DisableXSRF:   true,             // API only
		AvatarStore:   avatar.NewNoOp(), // no avatars
	})

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		service.AddProvider("google", cfg.GoogleClientID, cfg.GoogleClientSecret)
	}

	return service
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"secretpassword"`
	Name     string `json:"name" example:"Jane Doe"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"secretpassword"`
}

func (s *server) authRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Throttle(5))

	authHandler, _ := s.auth.Handlers()
	r.Mount("/", authHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ThrottleBacklog(10, 60, 50))
		r.Post("/register", s.registerHandler)
		r.Post("/login", s.loginHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/profile", s.profileHandler)
	})

	return r
}

// @Summary Register a new user
// @Description Register with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (s *server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnw("invalid registration request body", "error", err.Error(), "remote_addr", r.RemoteAddr)
		renderError(w, recall.Invalid("body", "is not valid JSON"))
		return
	}

	req.Email = strings.ToLower(clean(req.Email))
	req.Name = clean(req.Name)
	if req.Email == "" || req.Password == "" {
		renderError(w, recall.Invalid("email", "and password are required"))
		return
	}
	if len(req.Password) < minPasswordLength {
		renderError(w, recall.Invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength)))
		return
	}

	ctx := r.Context()
	if _, err := s.store.FindUserByEmail(ctx, req.Email); err == nil {
		log.Warnw("registration attempt for existing user", "email", req.Email, "remote_addr", r.RemoteAddr)
		renderError(w, recall.Invalid("email", "is already registered"))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Errorw("could not look up user", "email", req.Email, zap.Error(err))
		renderError(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorw("failed to hash password", zap.Error(err))
		renderError(w, err)
		return
	}

	user := recall.User{
		ProviderID:   "local_" + uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hashed),
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		log.Errorw("failed to create user", "email", req.Email, zap.Error(err))
		renderError(w, err)
		return
	}

	log.Infow("user registered", "user_id", user.ID, "email", req.Email)
	renderJSON(w, http.StatusCreated, MessageResponse{Message: "user registered successfully, please login"})
}

// @Summary Login user
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param user body LoginRequest true "User login data"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, recall.Invalid("body", "is not valid JSON"))
		return
	}

	req.Email = strings.ToLower(clean(req.Email))
	if req.Email == "" || req.Password == "" {
		renderError(w, recall.Invalid("email", "and password are required"))
		return
	}

	user, err := s.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorw("could not look up user", "email", req.Email, zap.Error(err))
			renderError(w, err)
			return
		}
		log.Warnw("login attempt for unknown user", "email", req.Email, "remote_addr", r.RemoteAddr)
		renderError(w, errInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warnw("login attempt with invalid password", "user_id", user.ID, "remote_addr", r.RemoteAddr)
		renderError(w, errInvalidCredentials)
		return
	}

	tok, err := s.generateJWTForUser(user)
	if err != nil {
		log.Errorw("failed to generate token", "user_id", user.ID, zap.Error(err))
		renderError(w, err)
		return
	}

	log.Infow("user logged in", "user_id", user.ID)
	renderJSON(w, http.StatusOK, AuthResponse{Token: tok, User: *user})
}

var errInvalidCredentials = &recall.Error{Kind: recall.KindUnauthorized, Message: "invalid credentials"}

// @Summary Get user profile
// @Description Get the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} recall.User
// @Failure 401 {object} ErrorResponse
// @Router /auth/profile [get]
func (s *server) profileHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := recall.UserIDFromContext(r.Context())
	user, err := s.store.FindUser(r.Context(), userID)
	if err != nil {
		log.Errorw("could not load profile", "user_id", userID, zap.Error(err))
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, user)
}

func (s *server) generateJWTForUser(user *recall.User) (string, error) {
	now := time.Now()
	id := strconv.FormatInt(user.ID, 10)
	claims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   id,
			Audience:  []string{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenDuration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		User: &token.User{
			ID:    id,
			Name:  user.Name,
			Email: user.Email,
		},
	}

	tok, err := s.auth.TokenService().Token(claims)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tok, nil
}

// currentUser resolves the bearer token on r to a stored user.
func (s *server) currentUser(r *http.Request) (*recall.User, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, fmt.Errorf("missing or invalid authorization header")
	}

	claims, err := s.auth.TokenService().Parse(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, err
	}
	if claims.User == nil {
		return nil, fmt.Errorf("token has no user")
	}

	id, err := strconv.ParseInt(claims.User.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("token user id %q: %w", claims.User.ID, err)
	}

	return s.store.FindUser(r.Context(), id)
}

// authMiddleware puts the caller's id into the request context or answers
// 401.
func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.currentUser(r)
		if err != nil {
			log.Warnw("authentication failed", "path", r.URL.Path, zap.Error(err))
			renderError(w, recall.ErrUnauthorized)
			return
		}

		ctx := recall.WithUserID(r.Context(), user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
