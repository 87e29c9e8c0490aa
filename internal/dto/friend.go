package dto

// FriendsResponse lists accepted friends and requests waiting on either side.
type FriendsResponse struct {
	Friends  []UserSummary `json:"friends"`
	Incoming []UserSummary `json:"incoming"`
	Outgoing []UserSummary `json:"outgoing"`
}

type FriendshipResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Accepted bool   `json:"accepted"`
}
