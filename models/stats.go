package models

// Supporter is an entry of the top supporters board.
type Supporter struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// CommunityGoal tracks progress towards the monthly server goal.
type CommunityGoal struct {
	Current    int     `json:"current"`
	Target     int     `json:"target"`
	Percentage float64 `json:"percentage"`
}

// RecentPurchase is a purchase shown in the sidebar feed.
type RecentPurchase struct {
	Player  string `json:"player"`
	Product string `json:"product"`
}
