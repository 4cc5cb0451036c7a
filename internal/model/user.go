package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles carried in the JWT and on the user record.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a staff member (cashier/worker) or admin. Credentials live in the
// identity service; this record only carries what reporting needs.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username  string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	FullName  string     `gorm:"type:varchar(150);not null"`
	Role      string     `gorm:"type:varchar(20);not null;default:'staff'"`
	BranchID  *uuid.UUID `gorm:"type:uuid;index"`
	Active    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time

	Branch *Branch `gorm:"foreignKey:BranchID"`
}
