package service

import (
	"context"
	"fmt"

	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/model"
	"github.com/sushitlalpan/sushi-be/internal/reconcile"
	"github.com/sushitlalpan/sushi-be/internal/repository"

	"github.com/google/uuid"
)

type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error)
}

type userService struct {
	users    repository.UserRepository
	branches repository.BranchRepository
}

func NewUserService(users repository.UserRepository, branches repository.BranchRepository) UserService {
	return &userService{users: users, branches: branches}
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	user := &model.User{
		Username: req.Username,
		FullName: req.FullName,
		Role:     req.Role,
		Active:   true,
	}
	if req.BranchID != nil {
		branchID, err := s.resolveBranch(ctx, *req.BranchID)
		if err != nil {
			return nil, err
		}
		user.BranchID = &branchID
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.BranchID != nil {
		branchID, err := s.resolveBranch(ctx, *req.BranchID)
		if err != nil {
			return nil, err
		}
		user.BranchID = &branchID
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, nil
}

func (s *userService) resolveBranch(ctx context.Context, raw string) (uuid.UUID, error) {
	branchID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &reconcile.ValidationError{Field: "branch_id", Reason: "uuid invalido"}
	}
	if _, err := s.branches.FindByID(ctx, branchID); err != nil {
		return uuid.Nil, fmt.Errorf("branch_id: %w", err)
	}
	return branchID, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Active:   u.Active,
	}
	if u.BranchID != nil {
		id := u.BranchID.String()
		resp.BranchID = &id
	}
	return resp
}
