package domain

import "time"

// UserRole role of an account
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleStaff    UserRole = "staff"
	RoleAdmin    UserRole = "admin"
)

// UserStatus account status
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserBanned    UserStatus = "banned"
	UserPending   UserStatus = "pending"
)

// User account identity
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	Phone         *string
	Role          UserRole
	Status        UserStatus
	TokenVersion  int
	LoyaltyPoints int
	ReferralCode  string
	ReferredBy    *string
	TotalBookings int
	TotalSpent    float64
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive может ли пользователь работать с сервисом
func (u *User) IsActive() bool {
	return u.Status == UserActive
}

// IsStaff staff and admins manage bookings
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}

// Contact snapshot for bookings
func (u *User) Contact() CustomerSnapshot {
	c := CustomerSnapshot{Name: u.Name, Email: u.Email}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	return c
}
