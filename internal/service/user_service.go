package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
)

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	hasher  PasswordHasher
	limiter RateLimiter
	now     func() time.Time
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, hasher PasswordHasher, limiter RateLimiter) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	return &UserService{
		logger:  logger,
		users:   users,
		hasher:  hasher,
		limiter: limiter,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Language string
}

type UpdateProfileInput struct {
	Name     *string
	Language *string
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrRateLimited        = errors.New("too many attempts")
)

var errUserServiceNotConfigured = errors.New("user service not configured")

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUserServiceNotConfigured
	}

	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if !looksLikeEmail(email) {
		return domain.User{}, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if name == "" {
		return domain.User{}, fmt.Errorf("%w: name", ErrInvalidInput)
	}
	if input.Password == "" {
		return domain.User{}, fmt.Errorf("%w: password", ErrInvalidInput)
	}
	language := strings.TrimSpace(input.Language)
	if language == "" {
		language = domain.DefaultLanguage
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Language:     language,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// carrera entre el GetByEmail y el insert
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUserServiceNotConfigured
	}

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, email) {
		s.logger.Warn("login rate limited", zap.String("email", email))
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.loginFailed(ctx, email)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.loginFailed(ctx, email)
		return domain.User{}, ErrInvalidCredentials
	}
	if s.limiter != nil {
		s.limiter.Reset(ctx, email)
	}
	return user, nil
}

// solo los intentos fallidos consumen el presupuesto del limitador
func (s *UserService) loginFailed(ctx context.Context, email string) {
	if s.limiter != nil {
		s.limiter.Fail(ctx, email)
	}
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUserServiceNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateProfile aplica solo los campos presentes. Sin cambios devuelve el usuario tal cual.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUserServiceNotConfigured
	}

	update := repository.ProfileUpdate{UpdatedAt: s.now()}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return domain.User{}, fmt.Errorf("%w: name", ErrInvalidInput)
		}
		update.Name = &name
	}
	if input.Language != nil {
		language := strings.TrimSpace(*input.Language)
		if language == "" {
			return domain.User{}, fmt.Errorf("%w: language", ErrInvalidInput)
		}
		update.Language = &language
	}
	if update.Name == nil && update.Language == nil {
		return s.GetByID(ctx, userID)
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// SearchByEmail nunca distingue "no existe" de un fallo del repositorio.
func (s *UserService) SearchByEmail(ctx context.Context, email string) (domain.PublicUser, bool) {
	if s.users == nil {
		return domain.PublicUser{}, false
	}
	email = normalizeEmail(email)
	if email == "" {
		return domain.PublicUser{}, false
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("search user by email failed", zap.Error(err))
		}
		return domain.PublicUser{}, false
	}
	return user.Public(), true
}

// Los emails se comparan tal como se guardaron; solo se recortan espacios.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func looksLikeEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}
