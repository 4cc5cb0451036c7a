package dto

// ─── Branch ──────────────────────────────────────────────────────────────────

type CreateBranchRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=100"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

type UpdateBranchRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2,max=100"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Active  *bool   `json:"active"`
}

type BranchResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   *string `json:"address"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"created_at"`
}

// ─── User ────────────────────────────────────────────────────────────────────

type CreateUserRequest struct {
	Username string  `json:"username"  validate:"required,min=3,max=100"`
	FullName string  `json:"full_name" validate:"required,min=2,max=150"`
	Role     string  `json:"role"      validate:"required,oneof=admin staff"`
	BranchID *string `json:"branch_id" validate:"omitempty,uuid"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=150"`
	Role     *string `json:"role"      validate:"omitempty,oneof=admin staff"`
	BranchID *string `json:"branch_id" validate:"omitempty,uuid"`
	Active   *bool   `json:"active"`
}

type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Role     string  `json:"role"`
	BranchID *string `json:"branch_id"`
	Active   bool    `json:"active"`
}
