package domain

import "time"

const (
	LeadSourceExternal = "externo"
	LeadSourceManual   = "manual"
)

// LeadReasonNotInformed preenche leads desqualificados no webhook sem motivo
const LeadReasonNotInformed = "Motivo não informado"

type Lead struct {
	ID                     string       `json:"id"`
	Name                   string       `json:"name"`
	Email                  string       `json:"email,omitempty"`
	Phone                  string       `json:"phone,omitempty"`
	DDI                    string       `json:"ddi,omitempty"`
	FullPhone              string       `json:"fullPhone,omitempty"`
	Source                 string       `json:"source"`
	ExternalID             string       `json:"externalId,omitempty"`
	Stage                  string       `json:"stage"`
	DisqualificationReason string       `json:"disqualificationReason,omitempty"`
	Observation            string       `json:"observation,omitempty"`
	Tasks                  []LeadTask   `json:"tasks,omitempty"`
	Records                []LeadRecord `json:"records,omitempty"`
	UpdatedAt              time.Time    `json:"updatedAt"`
}

func (l Lead) CardID() string { return l.ID }

type LeadTask struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Done    bool       `json:"done"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// LeadRecord é um registro de interação com o lead
type LeadRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateLeadRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DDI         string `json:"ddi"`
	Observation string `json:"observation"`
}

// LeadBoardResponse é a visão do quadro de leads com o estado do cache
type LeadBoardResponse struct {
	Board     any        `json:"board"`
	Stale     bool       `json:"stale"`
	Error     string     `json:"error,omitempty"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
}
