package shared

import "github.com/google/uuid"

// Actor is the resolved caller identity passed into every service call.
// The zero value is the anonymous caller.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// Anonymous returns the unauthenticated caller
func Anonymous() Actor {
	return Actor{}
}

// NewActor returns an authenticated caller
func NewActor(userID uuid.UUID, isAdmin bool) Actor {
	return Actor{UserID: userID, IsAdmin: isAdmin}
}

// IsAuthenticated reports whether the caller is a known user
func (a Actor) IsAuthenticated() bool {
	return a.UserID != uuid.Nil
}

// RequireAuthenticated returns ErrUnauthorized for anonymous callers
func (a Actor) RequireAuthenticated() error {
	if !a.IsAuthenticated() {
		return ErrUnauthorized
	}
	return nil
}

// CanModify reports whether the caller may mutate a resource owned by ownerID.
// Owners and admins may.
func (a Actor) CanModify(ownerID uuid.UUID) bool {
	if !a.IsAuthenticated() {
		return false
	}
	return a.IsAdmin || a.UserID == ownerID
}
