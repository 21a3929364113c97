package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"movierec/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type AuthService struct {
	users       UserStore
	jwtSecret   []byte
	adminEmails []string
}

type RegisterUserData struct {
	Email           string
	Password        string
	Username        string
	PreferredGenres []string
}

// adminEmails reciben role admin al registrarse; el resto, user.
func NewAuthService(users UserStore, secret string, adminEmails []string) *AuthService {
	lower := make([]string, len(adminEmails))
	for i, e := range adminEmails {
		lower[i] = strings.ToLower(e)
	}
	return &AuthService{users: users, jwtSecret: []byte(secret), adminEmails: lower}
}

// ================== REGISTER & LOGIN ==================

// Register crea un usuario nuevo.
func (s *AuthService) Register(ctx context.Context, data RegisterUserData) (*models.UserDoc, error) {
	email := strings.ToLower(strings.TrimSpace(data.Email))
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	nextID, err := s.users.GetNextUserID(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := "user"
	if slices.Contains(s.adminEmails, email) {
		role = "admin"
	}

	u := &models.UserDoc{
		UserID:          nextID,
		Email:           email,
		PasswordHash:    string(hash),
		Role:            role,
		Username:        data.Username,
		PreferredGenres: data.PreferredGenres,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.UserDoc, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(u.UserID, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// IssueToken firma un JWT HS256 con sub, role y exp.
func (s *AuthService) IssueToken(userID int, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	})
	sToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("firmando token: %w", err)
	}
	return sToken, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID int) (*models.UserDoc, error) {
	return s.users.FindByID(ctx, userID)
}
