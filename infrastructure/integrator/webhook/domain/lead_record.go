package domain

import (
	"bytes"
	"strconv"
)

// FlexibleID aceita IDs enviados como string ou número pelo webhook
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	*id = FlexibleID(data)
	return nil
}

// LeadRecord é o registro de lead como o webhook devolve
type LeadRecord struct {
	ID                     FlexibleID      `json:"Id"`
	Name                   string          `json:"name"`
	Email                  string          `json:"email"`
	Phone                  string          `json:"phone"`
	DDI                    string          `json:"ddi"`
	Stage                  string          `json:"stage"`
	DisqualificationReason string          `json:"motivo_desqualificacao"`
	Observation            string          `json:"observacao"`
	Tasks                  []TaskRecord    `json:"tasks"`
	Records                []HistoryRecord `json:"registros_lead"`
	UpdatedAt              string          `json:"UpdatedAt"`
	ExternalID             FlexibleID      `json:"external_id"`
}

type TaskRecord struct {
	ID      FlexibleID `json:"id"`
	Title   string     `json:"titulo"`
	Done    bool       `json:"concluida"`
	DueDate string     `json:"prazo"`
}

type HistoryRecord struct {
	ID        FlexibleID `json:"id"`
	Kind      string     `json:"tipo"`
	Note      string     `json:"descricao"`
	CreatedAt string     `json:"created_at"`
}

// LeadsByStage é o corpo de GET leads: nome da etapa → registros
type LeadsByStage map[string][]LeadRecord

// Stats são os agregados do painel
type Stats struct {
	TotalValue       float64 `json:"totalValue"`
	ConversionRate   float64 `json:"conversionRate"`
	ActiveLeads      int     `json:"activeLeads"`
	PendingProposals int     `json:"pendingProposals"`
	GrowthPercentage float64 `json:"growthPercentage"`
}

// LeadStageUpdate é o corpo enviado ao webhook de atualização de leads
type LeadStageUpdate struct {
	LeadID string `json:"leadId"`
	Stage  string `json:"stage"`
}

// IdempotencyKey identifica a mudança de etapa para que reenvios não
// sejam aplicados duas vezes
func (u LeadStageUpdate) IdempotencyKey() string {
	return u.LeadID + ":" + u.Stage
}
