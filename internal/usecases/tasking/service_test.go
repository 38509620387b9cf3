package tasking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/guarding"
)

func TestCardMovesAreDirect(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)
	ctx := context.Background()

	card, err := service.CreateCard(ctx, &domain.CreateTaskCardRequest{Title: " Revisar contrato "})
	require.NoError(t, err)
	assert.Equal(t, "Revisar contrato", card.Title)

	outcome, err := service.Mover().Request(ctx, domain.MoveRequest{
		CardID: card.ID, SourceColumnID: "A Fazer", DestColumnID: "Concluído",
	})
	require.NoError(t, err)
	assert.Equal(t, guarding.StateCommitted, outcome.State)

	stage, done, ok := service.store.Snapshot().Find(card.ID)
	require.True(t, ok)
	assert.Equal(t, domain.CardStageDone, stage.ID)
	assert.True(t, done.Done)

	_, err = service.Mover().Request(ctx, domain.MoveRequest{
		CardID: card.ID, SourceColumnID: domain.CardStageDone, DestColumnID: domain.CardStageInProgress,
	})
	require.NoError(t, err)

	_, reopened, _ := service.store.Snapshot().Find(card.ID)
	assert.False(t, reopened.Done)
}

func TestCreateCard_TitleRequired(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)

	_, err = service.CreateCard(context.Background(), &domain.CreateTaskCardRequest{})

	assert.ErrorIs(t, err, ErrTitleRequired)
}
