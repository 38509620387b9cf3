package proposing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/crm-pipeline-api/infrastructure/integrator/webhook/mocks"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/guarding"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) (*Service, *mocks.MockWebhookIntegrator) {
	t.Helper()

	notifier := mocks.NewMockWebhookIntegrator(gomock.NewController(t))
	service, err := NewService(notifier, guarding.WithSyncHooks[domain.Proposal]())
	require.NoError(t, err)

	service.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	seq := 0
	service.newID = func() (string, error) {
		seq++
		return fmt.Sprintf("prop-%d", seq), nil
	}

	return service, notifier
}

func TestProposalMoveRequiresConfirmation(t *testing.T) {
	service, notifier := newTestService(t)
	ctx := context.Background()

	notifier.EXPECT().Notify(gomock.Any(), domain.EventProposalCreated, gomock.Any()).Return(nil)
	proposal, err := service.CreateProposal(ctx, &domain.CreateProposalRequest{Title: "Proposta A", OpportunityID: "opp-1", Value: 500})
	require.NoError(t, err)
	assert.Equal(t, "Rascunho", proposal.Status)

	outcome, err := service.Mover().Request(ctx, domain.MoveRequest{
		CardID: proposal.ID, SourceColumnID: "Rascunho", DestColumnID: "Enviada",
	})
	require.NoError(t, err)
	require.Equal(t, guarding.StateAwaitingConfirmation, outcome.State)
	assert.Equal(t, "Mover de Rascunho para Enviada", outcome.Pending.Prompt)

	stage, _, _ := service.store.Snapshot().Find(proposal.ID)
	assert.Equal(t, domain.ProposalStageDraft, stage.ID)

	notifier.EXPECT().Notify(gomock.Any(), domain.EventProposalStageChanged, domain.StageChange{
		CardID: proposal.ID, FromStage: "Rascunho", ToStage: "Enviada",
	}).Return(nil)

	_, err = service.Mover().Confirm(ctx, outcome.Pending.ID)
	require.NoError(t, err)

	stage, moved, _ := service.store.Snapshot().Find(proposal.ID)
	assert.Equal(t, domain.ProposalStageSent, stage.ID)
	assert.Equal(t, "Enviada", moved.Status)
}

func TestProposalCancelKeepsColumn(t *testing.T) {
	service, notifier := newTestService(t)
	ctx := context.Background()

	notifier.EXPECT().Notify(gomock.Any(), domain.EventProposalCreated, gomock.Any()).Return(nil)
	proposal, err := service.CreateProposal(ctx, &domain.CreateProposalRequest{Title: "Proposta A"})
	require.NoError(t, err)

	outcome, err := service.Mover().Request(ctx, domain.MoveRequest{
		CardID: proposal.ID, SourceColumnID: domain.ProposalStageDraft, DestColumnID: domain.ProposalStageRejected,
	})
	require.NoError(t, err)

	_, err = service.Mover().Cancel(ctx, outcome.Pending.ID)
	require.NoError(t, err)

	stage, _, _ := service.store.Snapshot().Find(proposal.ID)
	assert.Equal(t, domain.ProposalStageDraft, stage.ID)
}

func TestByOpportunity(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.store.Replace(map[string][]domain.Proposal{
		domain.ProposalStageDraft:    {{ID: "p1", OpportunityID: "o1"}, {ID: "p2"}},
		domain.ProposalStageAccepted: {{ID: "p3", OpportunityID: "o1"}},
		domain.ProposalStageSent:     {{ID: "p4", OpportunityID: "o2"}},
	})
	require.NoError(t, err)

	groups := service.ByOpportunity()

	require.Len(t, groups["o1"], 2)
	assert.Equal(t, "p1", groups["o1"][0].ID)
	assert.Equal(t, "p3", groups["o1"][1].ID)
	assert.Len(t, groups["o2"], 1)
	assert.Len(t, groups[""], 1)
}

func TestCreateProposal_Validation(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreateProposal(context.Background(), &domain.CreateProposalRequest{Title: ""})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = service.CreateProposal(context.Background(), &domain.CreateProposalRequest{Title: "X", Value: -10})
	assert.ErrorIs(t, err, ErrInvalidValue)
}
