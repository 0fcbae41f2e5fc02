package model

import "strings"

// Permission is a single grantable capability, represented as one bit so a
// whole grant fits in a PermissionSet word.
type Permission uint32

const (
	PermBookSeats Permission = 1 << iota
	PermManageOwnReservations
	PermManageFlights
	PermManageAircraft
	PermManageReferenceData
	PermDeleteFlights
	PermDeleteAircraft
)

// String returns a stable name for the permission, mainly for logs.
func (p Permission) String() string {
	switch p {
	case PermBookSeats:
		return "book_seats"
	case PermManageOwnReservations:
		return "manage_own_reservations"
	case PermManageFlights:
		return "manage_flights"
	case PermManageAircraft:
		return "manage_aircraft"
	case PermManageReferenceData:
		return "manage_reference_data"
	case PermDeleteFlights:
		return "delete_flights"
	case PermDeleteAircraft:
		return "delete_aircraft"
	}
	return "unknown"
}

// PermissionSet is a bitset of permissions.  The zero value is the empty
// set.  "All permissions" is not a member of the set; it is expressed by
// the all flag so that Has stays a plain containment check.
type PermissionSet struct {
	bits uint32
	all  bool
}

// NewPermissionSet builds a set containing exactly the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		s.bits |= uint32(p)
	}
	return s
}

// AllPermissions returns the set that contains every permission, present
// and future.  Used for system admins.
func AllPermissions() PermissionSet { return PermissionSet{all: true} }

// Has reports whether p is granted by the set.
func (s PermissionSet) Has(p Permission) bool {
	return s.all || s.bits&uint32(p) != 0
}

// HasAll reports whether the set is the universal grant.
func (s PermissionSet) HasAll() bool { return s.all }

// String renders the set for logs, e.g. "book_seats|manage_own_reservations".
func (s PermissionSet) String() string {
	if s.all {
		return "all"
	}
	var names []string
	for bit := Permission(1); bit != 0 && uint32(bit) <= s.bits; bit <<= 1 {
		if s.bits&uint32(bit) != 0 {
			names = append(names, bit.String())
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// RolePermissions maps a role onto the permissions it is granted.  Unknown
// roles get the empty set.
func RolePermissions(r Role) PermissionSet {
	switch r {
	case RoleCustomer:
		return NewPermissionSet(PermBookSeats, PermManageOwnReservations)
	case RoleFlightAgent:
		return NewPermissionSet(PermManageFlights, PermManageReferenceData)
	case RoleSystemAdmin:
		return AllPermissions()
	}
	return PermissionSet{}
}
