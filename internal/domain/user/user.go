package user

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the authoritative application record. Role comes from the backend
// only; never from a client-decoded Google credential.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
