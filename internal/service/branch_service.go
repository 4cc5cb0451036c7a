package service

import (
	"context"
	"time"

	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/model"
	"github.com/sushitlalpan/sushi-be/internal/repository"

	"github.com/google/uuid"
)

type BranchService interface {
	Create(ctx context.Context, req dto.CreateBranchRequest) (*dto.BranchResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.BranchResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateBranchRequest) (*dto.BranchResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.BranchResponse, error)
}

type branchService struct {
	repo repository.BranchRepository
}

func NewBranchService(repo repository.BranchRepository) BranchService {
	return &branchService{repo: repo}
}

func (s *branchService) Create(ctx context.Context, req dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	branch := &model.Branch{
		Name:    req.Name,
		Address: req.Address,
		Active:  true,
	}
	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, err
	}
	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) GetByID(ctx context.Context, id uuid.UUID) (*dto.BranchResponse, error) {
	branch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	branch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = req.Address
	}
	if req.Active != nil {
		branch.Active = *req.Active
	}
	if err := s.repo.Update(ctx, branch); err != nil {
		return nil, err
	}
	resp := toBranchResponse(branch)
	return &resp, nil
}

func (s *branchService) List(ctx context.Context, includeInactive bool) ([]dto.BranchResponse, error) {
	branches, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for i := range branches {
		out = append(out, toBranchResponse(&branches[i]))
	}
	return out, nil
}

func toBranchResponse(b *model.Branch) dto.BranchResponse {
	return dto.BranchResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		Address:   b.Address,
		Active:    b.Active,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
