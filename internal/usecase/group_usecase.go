package usecase

import (
	"context"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// GroupUseCase handles group and membership management.
type GroupUseCase struct {
	groupRepo GroupRepository
	userRepo  UserRepository
	idGen     IDGenerator
}

// NewGroupUseCase creates a new GroupUseCase.
func NewGroupUseCase(groupRepo GroupRepository, userRepo UserRepository, idGen IDGenerator) *GroupUseCase {
	return &GroupUseCase{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		idGen:     idGen,
	}
}

// CreateGroupInput represents input for creating a group.
type CreateGroupInput struct {
	Name      string
	Currency  string
	CreatedBy string
}

// CreateGroup creates a group and enrolls its creator as the first member.
func (uc *GroupUseCase) CreateGroup(ctx context.Context, input CreateGroupInput) (*domain.Group, error) {
	if err := domain.ValidateDescription(input.Name); err != nil {
		return nil, domain.NewValidationError("name", "must not be empty")
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	group := &domain.Group{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Currency:  input.Currency,
		CreatedBy: input.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.groupRepo.Create(ctx, group, input.CreatedBy); err != nil {
		return nil, err
	}

	return group, nil
}

// AddMember adds a user to a group.
func (uc *GroupUseCase) AddMember(ctx context.Context, groupID, userID string) error {
	exists, err := uc.groupRepo.Exists(ctx, groupID)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrGroupNotFound
	}

	deleted, err := uc.userRepo.IsDeleted(ctx, userID)
	if err != nil {
		return err
	}

	if deleted {
		return domain.NewValidationError("user_id", "user "+userID+" is deleted")
	}

	return uc.groupRepo.AddMember(ctx, groupID, userID)
}

// RemoveMember removes a user from a group. Membership rows are soft
// deleted so past expenses keep resolving.
func (uc *GroupUseCase) RemoveMember(ctx context.Context, groupID, userID string) error {
	exists, err := uc.groupRepo.Exists(ctx, groupID)
	if err != nil {
		return err
	}

	if !exists {
		return domain.ErrGroupNotFound
	}

	return uc.groupRepo.RemoveMember(ctx, groupID, userID)
}

// GroupsForUser lists the groups a user belongs to.
func (uc *GroupUseCase) GroupsForUser(ctx context.Context, userID string) ([]*domain.Group, error) {
	return uc.groupRepo.ListByUser(ctx, userID)
}
