package domain

import "time"

type Proposal struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	OpportunityID string    `json:"opportunityId"`
	Value         float64   `json:"value"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (p Proposal) CardID() string { return p.ID }

type CreateProposalRequest struct {
	Title         string  `json:"title"`
	OpportunityID string  `json:"opportunityId"`
	Value         float64 `json:"value"`
}
