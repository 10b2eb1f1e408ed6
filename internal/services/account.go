package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskflow/internal/apperrors"
	"taskflow/internal/clock"
	"taskflow/internal/models"
	"taskflow/internal/repositories"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegistrationRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type AccountService interface {
	Register(ctx context.Context, req RegistrationRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	CompleteOnboarding(ctx context.Context, userID uuid.UUID, choice string) (*models.User, error)
	UpgradeToCreator(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, email string) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next, confirm string) error
}

type AccountServiceImpl struct {
	users       repositories.UserRepository
	clock       clock.Clock
	bcryptCost  int
	minPassword int
}

func NewAccountService(users repositories.UserRepository, clk clock.Clock, bcryptCost, minPassword int) *AccountServiceImpl {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountServiceImpl{
		users:       users,
		clock:       clk,
		bcryptCost:  bcryptCost,
		minPassword: minPassword,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

func (s *AccountServiceImpl) checkPassword(password string) error {
	if len(password) < s.minPassword {
		return apperrors.ErrWeakPassword
	}
	if len(password) > maxPasswordBytes {
		return apperrors.ErrPasswordTooLong
	}
	return nil
}

func (s *AccountServiceImpl) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *AccountServiceImpl) Register(ctx context.Context, req RegistrationRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, apperrors.ErrMissingFields
	}
	if err := s.checkPassword(req.Password); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		AccountKind:  models.AccountStandard,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AccountServiceImpl) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *AccountServiceImpl) CompleteOnboarding(ctx context.Context, userID uuid.UUID, choice string) (*models.User, error) {
	kind, ok := models.ParseAccountKind(choice)
	if !ok {
		return nil, apperrors.ErrInvalidAccountKind
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.AccountKind = kind
	user.OnboardingDone = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("complete onboarding: %w", err)
	}
	return user, nil
}

// UpgradeToCreator flips the account kind. There is no billing step.
func (s *AccountServiceImpl) UpgradeToCreator(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsCreator() && user.OnboardingDone {
		return user, nil
	}
	user.AccountKind = models.AccountCreator
	user.OnboardingDone = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("upgrade account: %w", err)
	}
	return user, nil
}

func (s *AccountServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" {
		return nil, apperrors.ErrMissingFields
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		taken, err := s.users.EmailTaken(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrEmailTaken
		}
	}

	user.Name = name
	user.Email = email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *AccountServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, current, next, confirm string) error {
	if current == "" || next == "" || confirm == "" {
		return apperrors.ErrMissingFields
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(user.PasswordHash, current) {
		return apperrors.ErrInvalidCredentials
	}
	if next != confirm {
		return apperrors.ErrPasswordMismatch
	}
	if err := s.checkPassword(next); err != nil {
		return err
	}

	hashed, err := s.hash(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
