package domain

import "time"

// Nomes de eventos de negócio enviados ao webhook de oportunidades
const (
	EventLeadCreated             = "lead.created"
	EventOpportunityCreated      = "opportunity.created"
	EventOpportunityStageChanged = "opportunity.stage_changed"
	EventOpportunityUpdated      = "opportunity.updated"
	EventProposalCreated         = "proposal.created"
	EventProposalStageChanged    = "proposal.stage_changed"
)

// Event é o envelope genérico de notificação
type Event struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Data      any       `json:"data"`
}

// StageChange é o payload dos eventos de mudança de etapa
type StageChange struct {
	CardID    string `json:"cardId"`
	FromStage string `json:"fromStage"`
	ToStage   string `json:"toStage"`
	Reason    string `json:"reason,omitempty"`
}
