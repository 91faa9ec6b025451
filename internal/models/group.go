package models

// Membership is the edge between a user and a group. It has no attributes
// of its own.
type Membership struct {
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
}
