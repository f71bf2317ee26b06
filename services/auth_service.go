package services

import (
	"fmt"
	"share-lab/auth"
	"share-lab/errors"
)

const adminSubject = "admin"

type IAuthService interface {
	Login(password string) (Token, error)
}

type AuthService struct {
	verifier *auth.PasswordVerifier
	issuer   *auth.TokenIssuer
}

type Token string

func (t Token) String() string {
	return string(t)
}

func NewAuthService(verifier *auth.PasswordVerifier, issuer *auth.TokenIssuer) IAuthService {
	return &AuthService{verifier: verifier, issuer: issuer}
}

// Login checks the admin password and issues a session token.
func (s *AuthService) Login(password string) (Token, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Password: password}); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidCredentials, err)
	}
	if err := s.verifier.Verify(password); err != nil {
		return "", errors.ErrInvalidCredentials
	}
	token, err := s.issuer.Generate(adminSubject, auth.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("token generation: %w", err)
	}
	return Token(token), nil
}
