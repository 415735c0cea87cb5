package models

// Group represents a set of members who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// CreatedBy is the user ID of the group's creator, who is also its admin.
	CreatedBy string

	// Members is the group's membership list, in join order. Join order is
	// stable, so the ledger engine can use it as a canonical member ordering.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is one participant in a group. The ledger engine treats the ID as
// opaque and only reads display attributes back out for responses.
type Member struct {
	// UserID identifies the member. References a User.
	UserID string

	// DisplayName is the member's name at the time they joined.
	DisplayName string

	// ImageURL is an optional avatar URL.
	ImageURL string
}

// IsMember reports whether userID belongs to the group.
func (g *Group) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether userID may manage the group.
func (g *Group) IsAdmin(userID string) bool {
	return g.CreatedBy == userID
}
