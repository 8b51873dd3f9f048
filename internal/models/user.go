package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole normalises a role string coming from a request or a token claim.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return r, true
	}
	return "", false
}

// internal/models/user.go
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Email string    `gorm:"not null;uniqueIndex:idx_users_email_live,where:deleted_at IS NULL" json:"email"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`

	// provider harus di-approve admin dulu sebelum bisa login
	IsVerified   bool    `gorm:"not null;default:false" json:"is_verified"`
	TokenVersion int     `gorm:"not null;default:0" json:"-"`
	Balance      float64 `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`

	Location     string `gorm:"type:varchar(255)" json:"location"`
	Phone        string `gorm:"type:varchar(30)" json:"phone"`
	ProfileImage string `gorm:"type:text" json:"profile_image"`

	// provider profile
	Bio                         string `gorm:"type:text" json:"bio,omitempty"`
	Experience                  string `gorm:"type:text" json:"experience,omitempty"`
	ServiceArea                 string `gorm:"type:varchar(255)" json:"service_area,omitempty"`
	DocumentType                string `gorm:"type:varchar(50)" json:"document_type,omitempty"`
	VerificationDocument        string `gorm:"type:text" json:"verification_document,omitempty"`
	VerificationRejectionReason string `gorm:"type:text" json:"verification_rejection_reason,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Owns reports whether the principal is the given user or an admin.
func (p Principal) Owns(userID uuid.UUID) bool {
	return p.IsAdmin() || p.ID == userID
}

// RequireRole fails with ErrForbidden unless the principal has one of roles.
func RequireRole(p Principal, roles ...Role) error {
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: insufficient role", ErrForbidden)
}
