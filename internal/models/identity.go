package models

// Identity is the caller resolved from a bearer token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// MatchesOwner reports whether this identity matches a stored created_by key.
// New rows store the user id; rows written by older clients may hold the
// owner's email, so either value grants access.
func (i *Identity) MatchesOwner(createdBy string) bool {
	if i == nil || createdBy == "" {
		return false
	}
	if i.ID != "" && i.ID == createdBy {
		return true
	}
	if i.Email != "" && i.Email == createdBy {
		return true
	}
	return false
}

// OwnerKey returns the value stamped into created_by at creation time: the
// user id when present, otherwise the email.
func (i *Identity) OwnerKey() string {
	if i.ID != "" {
		return i.ID
	}
	return i.Email
}
