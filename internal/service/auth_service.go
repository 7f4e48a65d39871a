package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/domain"
)

var ErrEmailLinkedElsewhere = errors.New("email already linked to different account")

// FirebaseAuthClient defines the interface for Firebase Auth operations
// This allows mocking for tests
type FirebaseAuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService exchanges Firebase ID tokens for app access tokens
type AuthService struct {
	userRepo   domain.UserRepository
	authClient FirebaseAuthClient
	tokens     *TokenService
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, authClient FirebaseAuthClient, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		authClient: authClient,
		tokens:     tokens,
	}
}

// LoginResponse contains the athlete and their access token
type LoginResponse struct {
	User      *domain.User
	Token     *AccessToken
	IsNewUser bool
}

// LoginOrRegister verifies the Firebase token, finds the athlete (by uid,
// then by email for accounts created before linking) or registers them, and
// issues an access token.
func (s *AuthService) LoginOrRegister(ctx context.Context, firebaseToken string) (*LoginResponse, error) {
	token, err := s.authClient.VerifyIDToken(ctx, firebaseToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	firebaseUID := token.UID
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if email == "" {
		return nil, domain.NewValidationError("email", "firebase account has no email")
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}

	user, err := s.userRepo.GetByFirebaseUID(ctx, firebaseUID)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = s.linkByEmail(ctx, email, firebaseUID)
	}

	isNew := false
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		user = &domain.User{FirebaseUID: firebaseUID, Email: email, Name: name}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		isNew = true
		logrus.WithField("user_id", user.ID).Info("registered new athlete")
	default:
		return nil, err
	}

	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{User: user, Token: access, IsNewUser: isNew}, nil
}

func (s *AuthService) linkByEmail(ctx context.Context, email, firebaseUID string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.FirebaseUID != "" && user.FirebaseUID != firebaseUID {
		return nil, ErrEmailLinkedElsewhere
	}
	if err := s.userRepo.UpdateFirebaseUID(ctx, user.ID, firebaseUID); err != nil {
		return nil, fmt.Errorf("failed to link firebase account: %w", err)
	}
	user.FirebaseUID = firebaseUID
	return user, nil
}

// Me returns the authenticated athlete
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
