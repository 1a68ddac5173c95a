package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/splitledger/internal/domain"
)

// UserUseCase handles user registration, authentication, and account
// closure.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates a new user with a hashed password.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, domain.NewValidationError("email", "already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		HashedPassword: string(hashed),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// Authenticate verifies user credentials.
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if user.Deleted {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""

	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// CloseAccount soft-deletes a user. The row stays so historical transfers
// keep resolving.
func (uc *UserUseCase) CloseAccount(ctx context.Context, id string) error {
	if _, err := uc.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.userRepo.SoftDelete(ctx, id, time.Now().UTC())
}

// UsersUpdatedAfter lists users created or updated after the given moment.
func (uc *UserUseCase) UsersUpdatedAfter(ctx context.Context, since time.Time) ([]*domain.User, error) {
	users, err := uc.userRepo.ListUpdatedAfter(ctx, since)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.HashedPassword = ""
	}

	return users, nil
}
