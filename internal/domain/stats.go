package domain

import "time"

// DashboardStats são os agregados exibidos no painel
type DashboardStats struct {
	TotalValue       float64   `json:"totalValue"`
	ConversionRate   float64   `json:"conversionRate"`
	ActiveLeads      int       `json:"activeLeads"`
	PendingProposals int       `json:"pendingProposals"`
	GrowthPercentage float64   `json:"growthPercentage"`
	LastUpdate       time.Time `json:"lastUpdate"`
}

type StatsResponse struct {
	Stats     *DashboardStats `json:"stats"`
	Stale     bool            `json:"stale"`
	IsLoading bool            `json:"isLoading"`
	Error     string          `json:"error,omitempty"`
}
