// Package domain contains entity without logic, just meta-data
package domain

// Member is caller-asserted identity for one connection in a room.
// Nothing here is verified: the same UserID may appear on several
// connections at once, and any number of members may claim IsHost.
type Member struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsHost   bool   `json:"isHost"`
}

const DefaultUsername = "Guest"

// NewMember applies the connect-time defaults and keeps adapters free
// of ad-hoc struct literals.
func NewMember(userID, username string, isHost bool) Member {
	if username == "" {
		username = DefaultUsername
	}
	return Member{UserID: userID, Username: username, IsHost: isHost}
}
