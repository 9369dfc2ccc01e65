package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RolePlayer    UserRole = "player"
)

// User is an arena member record. Its tax identifier lives in the CPF field;
// generic profiles keep theirs in Document instead (see Profile).
type User struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Nickname     *string  `json:"nickname,omitempty"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone,omitempty"`
	CPF          string   `json:"cpf,omitempty"`
	Role         UserRole `json:"role"`
	PasswordHash string   `json:"password_hash,omitempty"` // cleared before any response leaves a handler

	GatewayCustomerID string      `json:"gateway_customer_id,omitempty"`
	SavedCards        []SavedCard `json:"saved_cards,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// DisplayName prefers the nickname over the full name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}

// Profile is a generic customer profile without a member account, used for
// walk-in registrants billed at the counter.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Document string `json:"document,omitempty"`

	GatewayCustomerID string      `json:"gateway_customer_id,omitempty"`
	SavedCards        []SavedCard `json:"saved_cards,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
