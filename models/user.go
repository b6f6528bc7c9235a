package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleCustomer = "customer"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is a back-office account (admin or operator). Customers live in their
// own table; the two identity sets are disjoint.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Customer is a storefront account keyed by an external freight-forwarder
// member id. The password is derived from the customer's phone number.
type Customer struct {
	ID           int       `json:"id"`
	MemberID     string    `json:"member_id"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

type StaffLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CustomerRegisterRequest struct {
	MemberID    string `json:"member_id" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}

type CustomerLoginRequest struct {
	MemberID    string `json:"member_id" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}
