package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DivyaP1063/shophub/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const TokenTTL = 7 * 24 * time.Hour

type UserStore interface {
	Create(ctx context.Context, u *models.User, passwordHash string) error
	GetCredentials(ctx context.Context, email string) (*models.User, string, error)
}

// Service registers accounts and issues the bearer tokens accepted by
// middleware.AuthMiddleware.
type Service struct {
	users  UserStore
	secret []byte
	cost   int
	now    func() time.Time
	logger *zap.Logger
}

func NewService(users UserStore, secret []byte, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		secret: secret,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
		logger: logger,
	}
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleBuyer
	}
	u := &models.User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(req.Name),
		Email: normalizeEmail(req.Email),
		Role:  role,
	}
	if err := s.users.Create(ctx, u, string(hash)); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return s.respond(u)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	u, hash, err := s.users.GetCredentials(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// accounts created without a password cannot log in this way
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("User logged in", zap.String("user_id", u.ID))
	return s.respond(u)
}

// IssueToken signs an HS256 token for u carrying userId, email and role.
func (s *Service) IssueToken(u *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": u.ID,
		"email":  u.Email,
		"role":   string(u.Role),
		"exp":    s.now().Add(TokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *Service) respond(u *models.User) (*models.AuthResponse, error) {
	token, err := s.IssueToken(u)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.AuthResponse{
		Token:   token,
		UserID:  u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Role:    u.Role,
		Address: u.Address,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
