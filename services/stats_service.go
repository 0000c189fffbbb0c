package services

import "github.com/AveGamers/HolySMP-Website/models"

// StatsService serves the shop sidebar boards. The Headless API exposes no
// sales history, so the figures are static.
type StatsService interface {
	TopSupporters() []models.Supporter
	Goal() models.CommunityGoal
	RecentPurchases() []models.RecentPurchase
}

type staticStats struct {
	supporters []models.Supporter
	current    int
	target     int
	purchases  []models.RecentPurchase
}

// NewStaticStatsService returns the built-in sidebar figures.
func NewStaticStatsService() StatsService {
	return &staticStats{
		supporters: []models.Supporter{
			{Name: "BuildMaster", Amount: 150},
			{Name: "CoolGamer", Amount: 120},
			{Name: "RedstoneKing", Amount: 95},
		},
		current: 342,
		target:  500,
		purchases: []models.RecentPurchase{
			{Player: "Max123", Product: "VIP Rang"},
			{Player: "Lisa456", Product: "VIP+ Rang (Abo)"},
			{Player: "Tom789", Product: "VIP Rang"},
		},
	}
}

func (s *staticStats) TopSupporters() []models.Supporter {
	out := make([]models.Supporter, len(s.supporters))
	copy(out, s.supporters)
	return out
}

func (s *staticStats) Goal() models.CommunityGoal {
	var pct float64
	if s.target > 0 {
		pct = float64(s.current) / float64(s.target) * 100
	}
	return models.CommunityGoal{Current: s.current, Target: s.target, Percentage: pct}
}

func (s *staticStats) RecentPurchases() []models.RecentPurchase {
	out := make([]models.RecentPurchase, len(s.purchases))
	copy(out, s.purchases)
	return out
}
