package domain

// Identity is the partition key for all persisted state: either the guest
// (zero value) or an authenticated user id. Exactly one identity is active
// in a store at a time; switching runs through Store.SetIdentity.
type Identity struct {
	userID string
}

// Guest returns the anonymous identity.
func Guest() Identity {
	return Identity{}
}

// User returns the identity for an authenticated user id.
func User(id string) Identity {
	return Identity{userID: id}
}

// IsUser reports whether the identity is authenticated.
func (i Identity) IsUser() bool {
	return i.userID != ""
}

// UserID returns the authenticated user id, or "" for the guest.
func (i Identity) UserID() string {
	return i.userID
}

func (i Identity) String() string {
	if i.userID == "" {
		return "guest"
	}
	return "user:" + i.userID
}
