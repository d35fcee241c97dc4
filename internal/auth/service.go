package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"billshare/internal/user"
	"billshare/pkg/apperror"
)

// Common errors
var (
	ErrInvalidCredentials = apperror.New(apperror.Validation, "invalid email or password")
)

// Service handles registration and login
type Service struct {
	users  *user.Service
	secret string
	ttl    time.Duration
}

// NewService creates a new auth service
func NewService(users *user.Service, secret string, ttl time.Duration) *Service {
	return &Service{users: users, secret: secret, ttl: ttl}
}

// Register creates a user with a bcrypt password hash and issues a token
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if req.Name == "" || req.Email == "" {
		return nil, apperror.New(apperror.Validation, "name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, apperror.New(apperror.Validation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &user.User{
		Name:         req.Name,
		Email:        req.Email,
		PixKey:       req.PixKey,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(created.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: created.ToResponse()}, nil
}

// Login verifies the credentials and issues a token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: u.ToResponse()}, nil
}

func (s *Service) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}
