package domain

type UserStats struct {
	Clients      int `json:"clients"`
	GarageOwners int `json:"garageOwners"`
}

func (s UserStats) Total() int { return s.Clients + s.GarageOwners }

type CountStats struct {
	Total        int `json:"total"`
	NewThisMonth int `json:"newThisMonth"`
}

type Stats struct {
	Users           UserStats  `json:"users"`
	Garages         CountStats `json:"garages"`
	ServiceRequests CountStats `json:"serviceRequests"`
	Checklists      CountStats `json:"checklists"`
}

type PeriodPoint struct {
	Date               string `json:"date"`
	NewUsers           int    `json:"newUsers"`
	NewGarages         int    `json:"newGarages"`
	NewServiceRequests int    `json:"newServiceRequests"`
	NewChecklists      int    `json:"newChecklists"`
}

type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)
