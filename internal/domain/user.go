package domain

import "time"

// Roles a user account can hold.
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleAgent  = "agent"
	RoleBroker = "broker"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleAgent, RoleBroker:
		return true
	}
	return false
}

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	PhoneNumber  string    `json:"phoneNumber" dynamodbav:"phone_number"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         string    `json:"role" dynamodbav:"role"`
	RefreshToken string    `json:"-" dynamodbav:"refresh_token"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Role        string `json:"role" validate:"omitempty,oneof=user admin agent broker"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber"`
	Role        *string `json:"role"`
}

// UserSearchFilter holds the optional attribute filters for user search.
// Search results are never cached.
type UserSearchFilter struct {
	Name        string
	Email       string
	Role        string
	PhoneNumber string
}
