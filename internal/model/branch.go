package model

import (
	"time"

	"github.com/google/uuid"
)

// Branch is a restaurant location. Closures, expenses and payroll records
// all hang off a branch.
type Branch struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Address   *string   `gorm:"type:varchar(255)"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
