package leading

import (
	"context"

	"github.com/vfg2006/crm-pipeline-api/internal/domain"
)

// LeadSource fornece os leads remotos e recebe os eventos de negócio
type LeadSource interface {
	FetchLeadColumns(ctx context.Context) (map[string][]domain.Lead, error)
	Notify(ctx context.Context, event string, data any) error
}

// StageSyncer publica mudanças de etapa com reenvio idempotente.
// Enqueue não bloqueia; Flush faz o envio.
type StageSyncer interface {
	Enqueue(leadID string, stage domain.Stage)
	Flush(ctx context.Context, leadID string) error
	Overlay(leadID string) (domain.Stage, bool)
}
