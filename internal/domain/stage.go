package domain

// StageCategory define o significado de negócio de uma etapa
type StageCategory string

const (
	StageNeutral          StageCategory = "neutral"
	StageWon              StageCategory = "won"
	StageTerminalNegative StageCategory = "terminal_negative"
)

// Stage é uma etapa (coluna) de um funil. O ID é o identificador estável;
// o título é apenas rótulo de exibição.
type Stage struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Category StageCategory `json:"category"`
	Color    string        `json:"color"`
}

// IsTerminalNegative indica se a etapa representa perda/desqualificação
func (s Stage) IsTerminalNegative() bool {
	return s.Category == StageTerminalNegative
}

// BoardKind identifica cada quadro kanban
type BoardKind string

const (
	BoardOpportunities BoardKind = "opportunities"
	BoardLeads         BoardKind = "leads"
	BoardProposals     BoardKind = "proposals"
	BoardCards         BoardKind = "cards"
)

// Etapas de leads
const (
	LeadStageNew          = "novo_lead"
	LeadStageContacted    = "em_contato"
	LeadStageQualified    = "qualificado"
	LeadStageDisqualified = "desqualificado"
)

// Etapas de oportunidades
const (
	OpportunityStageProspecting   = "prospeccao"
	OpportunityStageQualification = "qualificacao"
	OpportunityStageProposal      = "proposta"
	OpportunityStageNegotiation   = "negociacao"
	OpportunityStageWon           = "ganho"
	OpportunityStageLost          = "perdido"
)

// Etapas de propostas
const (
	ProposalStageDraft    = "rascunho"
	ProposalStageSent     = "enviada"
	ProposalStageReview   = "em_analise"
	ProposalStageAccepted = "aceita"
	ProposalStageRejected = "recusada"
)

// Etapas do quadro de cards
const (
	CardStageTodo       = "a_fazer"
	CardStageInProgress = "em_andamento"
	CardStageDone       = "concluido"
)

func LeadStages() []Stage {
	return []Stage{
		{ID: LeadStageNew, Title: "Novo Lead", Category: StageNeutral, Color: "#3B82F6"},
		{ID: LeadStageContacted, Title: "Em Contato", Category: StageNeutral, Color: "#F59E0B"},
		{ID: LeadStageQualified, Title: "Qualificado", Category: StageWon, Color: "#10B981"},
		{ID: LeadStageDisqualified, Title: "Desqualificado", Category: StageTerminalNegative, Color: "#EF4444"},
	}
}

func OpportunityStages() []Stage {
	return []Stage{
		{ID: OpportunityStageProspecting, Title: "Prospecção", Category: StageNeutral, Color: "#6366F1"},
		{ID: OpportunityStageQualification, Title: "Qualificação", Category: StageNeutral, Color: "#3B82F6"},
		{ID: OpportunityStageProposal, Title: "Proposta", Category: StageNeutral, Color: "#F59E0B"},
		{ID: OpportunityStageNegotiation, Title: "Negociação", Category: StageNeutral, Color: "#F97316"},
		{ID: OpportunityStageWon, Title: "Ganho", Category: StageWon, Color: "#10B981"},
		{ID: OpportunityStageLost, Title: "Perdido", Category: StageTerminalNegative, Color: "#EF4444"},
	}
}

func ProposalStages() []Stage {
	return []Stage{
		{ID: ProposalStageDraft, Title: "Rascunho", Category: StageNeutral, Color: "#9CA3AF"},
		{ID: ProposalStageSent, Title: "Enviada", Category: StageNeutral, Color: "#3B82F6"},
		{ID: ProposalStageReview, Title: "Em Análise", Category: StageNeutral, Color: "#F59E0B"},
		{ID: ProposalStageAccepted, Title: "Aceita", Category: StageWon, Color: "#10B981"},
		{ID: ProposalStageRejected, Title: "Recusada", Category: StageNeutral, Color: "#EF4444"},
	}
}

func CardStages() []Stage {
	return []Stage{
		{ID: CardStageTodo, Title: "A Fazer", Category: StageNeutral, Color: "#9CA3AF"},
		{ID: CardStageInProgress, Title: "Em Andamento", Category: StageNeutral, Color: "#3B82F6"},
		{ID: CardStageDone, Title: "Concluído", Category: StageWon, Color: "#10B981"},
	}
}
