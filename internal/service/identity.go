package service

// Identity is the request-scoped view of who is acting. The zero value is
// an anonymous visitor.
type Identity struct {
	UserID   uint
	Username string
}

// Anonymous returns the identity of a visitor who is not logged in.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated reports whether the identity belongs to a logged-in user.
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

// Is reports whether the identity is the given user.
func (i Identity) Is(userID uint) bool {
	return i.Authenticated() && i.UserID == userID
}
