package domain

import "time"

type Opportunity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company,omitempty"`
	Contact     string    `json:"contact,omitempty"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	StatusColor string    `json:"statusColor"`
	LossReason  string    `json:"lossReason,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (o Opportunity) CardID() string { return o.ID }

type CreateOpportunityRequest struct {
	Title   string  `json:"title"`
	Company string  `json:"company"`
	Contact string  `json:"contact"`
	Amount  float64 `json:"amount"`
	Stage   string  `json:"stage"`
}

// UpdateOpportunityRequest edita os campos informados; a etapa só muda por
// movimentação
type UpdateOpportunityRequest struct {
	Title   *string  `json:"title"`
	Company *string  `json:"company"`
	Contact *string  `json:"contact"`
	Amount  *float64 `json:"amount"`
}
