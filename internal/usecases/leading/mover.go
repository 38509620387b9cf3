package leading

import (
	"context"

	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/guarding"
)

// leadMover serializa commits com a recarga do quadro: uma recarga nunca
// lê o Overlay entre o commit e o enfileiramento da nova etapa.
type leadMover struct {
	*guarding.Controller[domain.Lead]
	service *Service
}

func (m *leadMover) Request(ctx context.Context, req domain.MoveRequest) (guarding.Outcome, error) {
	m.service.mu.Lock()
	defer m.service.mu.Unlock()
	return m.Controller.Request(ctx, req)
}

func (m *leadMover) SubmitReason(ctx context.Context, pendingID, reason string) (guarding.Outcome, error) {
	m.service.mu.Lock()
	defer m.service.mu.Unlock()
	return m.Controller.SubmitReason(ctx, pendingID, reason)
}

func (m *leadMover) Confirm(ctx context.Context, pendingID string) (guarding.Outcome, error) {
	m.service.mu.Lock()
	defer m.service.mu.Unlock()
	return m.Controller.Confirm(ctx, pendingID)
}
