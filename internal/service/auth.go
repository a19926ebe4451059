// Package service contains the application services: authentication and the
// preference/interaction orchestration.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"movierec-backend/internal/config"
	"movierec-backend/internal/errs"
	"movierec-backend/internal/models"
	"movierec-backend/internal/validate"
)

// AuthService handles registration and credential verification.
type AuthService struct {
	accounts AccountStore
	policy   validate.Policy
	signKey  []byte
	tokenTTL time.Duration
}

func NewAuthService(accounts AccountStore, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		accounts: accounts,
		policy:   cfg.PasswordPolicy,
		signKey:  []byte(cfg.JWTKey),
		tokenTTL: cfg.TokenTTL,
	}
}

// Register validates the identity fields, hashes the credential and creates
// the account with empty aggregates. A duplicate email is errs.ErrConflict.
func (s *AuthService) Register(ctx context.Context, req models.SignupRequest) (models.Profile, error) {
	in := validate.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}
	if err := validate.Signup(in, s.policy); err != nil {
		return models.Profile{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to hash password: %w", err)
	}

	a, err := s.accounts.Create(ctx, req.Name, req.Email, req.Phone, string(hash))
	if err != nil {
		return models.Profile{}, err
	}
	return a.Profile(), nil
}

// Login verifies the credential: errs.ErrNotFound when no account exists for
// the email, errs.ErrUnauthorized on hash mismatch. On success it returns the
// public profile and a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errs.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := s.issueAccessToken(a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{
		Message: "Login successful.",
		User:    a.Profile(),
		Token:   token,
	}, nil
}

// issueAccessToken creates a signed HS256 JWT with the account id as subject.
func (s *AuthService) issueAccessToken(accountID int) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(accountID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.signKey)
}
