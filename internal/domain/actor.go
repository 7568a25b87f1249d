package domain

import "github.com/google/uuid"

// Actor identifies who issues a command. Scheduled jobs and cascades use SystemActor.
type Actor struct {
	ID   uuid.UUID
	Role Role
	Name string
}

// SystemActor returns the actor used for automatic transitions
func SystemActor() Actor {
	return Actor{Role: RoleSystem, Name: "system"}
}

// IsSystem reports whether the actor is the system itself
func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}

// IsStaff reports whether the actor is an agent or an admin
func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

// IsVendor reports whether the actor is the vendor with the given id
func (a Actor) IsVendor(vendorID uuid.UUID) bool {
	return a.Role == RoleVendor && a.ID == vendorID
}

// IDPtr returns the actor id for persistence, nil for the system actor
func (a Actor) IDPtr() *uuid.UUID {
	if a.IsSystem() || a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}
