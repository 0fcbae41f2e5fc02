package model

import "time"

// Role partitions users into the three account kinds the system knows.  A
// user is exactly one role; callers switch on the role value rather than on
// a type hierarchy.
type Role string

const (
	RoleCustomer    Role = "CUSTOMER"
	RoleFlightAgent Role = "FLIGHT_AGENT"
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleFlightAgent, RoleSystemAdmin:
		return true
	}
	return false
}

// User is an account in the system.  Role decides which of the optional
// payload pointers is populated: exactly the one matching the role, the
// other two stay nil.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash (bcrypt)
	FullName     string    // users.full_name
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at

	Customer *CustomerProfile // set when Role == RoleCustomer
	Agent    *AgentProfile    // set when Role == RoleFlightAgent
	Admin    *AdminProfile    // set when Role == RoleSystemAdmin
}

// CustomerProfile carries the customer-specific columns.
type CustomerProfile struct {
	PassportNo  string  // users.passport_no
	FrequentFly *string // users.frequent_flyer_no (nullable)
}

// AgentProfile carries the flight-agent-specific columns.
type AgentProfile struct {
	AirlineID uint64 // users.airline_id: the carrier the agent works for
}

// AdminProfile is currently empty; admins carry no extra columns but the
// payload type keeps the variant explicit.
type AdminProfile struct{}
