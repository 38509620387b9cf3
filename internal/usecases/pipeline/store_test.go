package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
)

type testCard struct {
	ID     string
	Name   string
	Status string
	Reason string
	Owner  string
}

func (c testCard) CardID() string { return c.ID }

func testTransition(card testCard, _, to domain.Stage, reason string) testCard {
	card.Status = to.Title
	if to.IsTerminalNegative() {
		card.Reason = reason
	} else {
		card.Reason = ""
	}
	return card
}

func testStages() []domain.Stage {
	return []domain.Stage{
		{ID: "novo", Title: "Novo Lead", Category: domain.StageNeutral},
		{ID: "qualificado", Title: "Qualificado", Category: domain.StageNeutral},
		{ID: "perdido", Title: "Perdido", Category: domain.StageTerminalNegative},
	}
}

func newTestStore(t *testing.T, cards map[string][]testCard) *Store[testCard] {
	t.Helper()

	store, err := NewStore[testCard](domain.BoardLeads, testStages(), testTransition)
	require.NoError(t, err)

	if cards != nil {
		_, err = store.Replace(cards)
		require.NoError(t, err)
	}
	return store
}

func cardIDs(col Column[testCard]) []string {
	ids := make([]string, 0, len(col.Cards))
	for _, c := range col.Cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestNewStore_RejectsDuplicateTitles(t *testing.T) {
	stages := []domain.Stage{
		{ID: "a", Title: "Negociação"},
		{ID: "b", Title: " negociacao "},
	}

	_, err := NewStore[testCard](domain.BoardOpportunities, stages, testTransition)

	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestNewStore_RejectsDuplicateIDs(t *testing.T) {
	stages := []domain.Stage{
		{ID: "a", Title: "Um"},
		{ID: "a", Title: "Dois"},
	}

	_, err := NewStore[testCard](domain.BoardOpportunities, stages, testTransition)

	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestStore_Move(t *testing.T) {
	store := newTestStore(t, map[string][]testCard{
		"novo":        {{ID: "1", Name: "Ana"}, {ID: "2", Name: "Bia"}},
		"qualificado": {{ID: "3", Name: "Caio"}},
	})
	before := store.Snapshot()

	after, err := store.Move(domain.MoveRequest{CardID: "1", SourceColumnID: "novo", DestColumnID: "qualificado"})
	require.NoError(t, err)

	novo, _ := after.Column("novo")
	qualificado, _ := after.Column("qualificado")

	assert.Equal(t, []string{"2"}, cardIDs(novo))
	assert.Equal(t, []string{"3", "1"}, cardIDs(qualificado))
	assert.Equal(t, before.Count(), after.Count())
	assert.Equal(t, before.Version+1, after.Version)

	_, moved, ok := after.Find("1")
	require.True(t, ok)
	assert.Equal(t, "Qualificado", moved.Status)

	// o instantâneo anterior não é afetado
	oldNovo, _ := before.Column("novo")
	assert.Equal(t, []string{"1", "2"}, cardIDs(oldNovo))

	// os demais cards permanecem iguais
	_, other, _ := after.Find("3")
	assert.Equal(t, testCard{ID: "3", Name: "Caio"}, other)
}

func TestStore_MoveCardEndsInExactlyOneColumn(t *testing.T) {
	store := newTestStore(t, map[string][]testCard{
		"novo": {{ID: "1"}, {ID: "2"}, {ID: "3"}},
	})

	moves := []domain.MoveRequest{
		{CardID: "2", SourceColumnID: "novo", DestColumnID: "qualificado"},
		{CardID: "2", SourceColumnID: "qualificado", DestColumnID: "perdido", Reason: "sem orçamento"},
		{CardID: "2", SourceColumnID: "perdido", DestColumnID: "novo"},
		{CardID: "3", SourceColumnID: "novo", DestColumnID: "qualificado"},
	}
	for _, m := range moves {
		_, err := store.Move(m)
		require.NoError(t, err)
	}

	board := store.Snapshot()
	assert.Equal(t, 3, board.Count())

	occurrences := 0
	for _, col := range board.Columns {
		for _, c := range col.Cards {
			if c.ID == "2" {
				occurrences++
			}
		}
	}
	assert.Equal(t, 1, occurrences)
}

func TestStore_MoveRejections(t *testing.T) {
	tests := []struct {
		name string
		req  domain.MoveRequest
		err  error
	}{
		{
			name: "mesma coluna",
			req:  domain.MoveRequest{CardID: "1", SourceColumnID: "novo", DestColumnID: "novo"},
			err:  ErrSameColumn,
		},
		{
			name: "card fora da origem",
			req:  domain.MoveRequest{CardID: "1", SourceColumnID: "qualificado", DestColumnID: "perdido", Reason: "x"},
			err:  ErrCardNotFound,
		},
		{
			name: "card inexistente",
			req:  domain.MoveRequest{CardID: "999", SourceColumnID: "novo", DestColumnID: "qualificado"},
			err:  ErrCardNotFound,
		},
		{
			name: "coluna inexistente",
			req:  domain.MoveRequest{CardID: "1", SourceColumnID: "novo", DestColumnID: "arquivado"},
			err:  ErrColumnNotFound,
		},
		{
			name: "destino terminal sem motivo",
			req:  domain.MoveRequest{CardID: "1", SourceColumnID: "novo", DestColumnID: "perdido", Reason: "   "},
			err:  ErrReasonRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, map[string][]testCard{"novo": {{ID: "1"}}})
			before := store.Snapshot()

			after, err := store.Move(tt.req)

			assert.ErrorIs(t, err, tt.err)
			assert.Same(t, before, after)
			assert.Same(t, before, store.Snapshot())
		})
	}
}

func TestStore_ReasonAttachedAndCleared(t *testing.T) {
	store := newTestStore(t, map[string][]testCard{"novo": {{ID: "1"}}})

	board, err := store.Move(domain.MoveRequest{CardID: "1", SourceColumnID: "novo", DestColumnID: "perdido", Reason: " Preço alto "})
	require.NoError(t, err)
	_, card, _ := board.Find("1")
	assert.Equal(t, "Preço alto", card.Reason)

	board, err = store.Move(domain.MoveRequest{CardID: "1", SourceColumnID: "perdido", DestColumnID: "qualificado"})
	require.NoError(t, err)
	_, card, _ = board.Find("1")
	assert.Empty(t, card.Reason)
}

func TestStore_MoveRejectsIdentityChange(t *testing.T) {
	store, err := NewStore[testCard](domain.BoardLeads, testStages(), func(c testCard, _, _ domain.Stage, _ string) testCard {
		c.ID = "outro"
		return c
	})
	require.NoError(t, err)
	_, err = store.Add("novo", testCard{ID: "1"})
	require.NoError(t, err)
	before := store.Snapshot()

	after, err := store.Move(domain.MoveRequest{CardID: "1", SourceColumnID: "novo", DestColumnID: "qualificado"})

	assert.ErrorIs(t, err, ErrIdentityChanged)
	assert.Same(t, before, after)
}

func TestStore_Add(t *testing.T) {
	store := newTestStore(t, nil)

	board, err := store.Add("novo", testCard{ID: "1", Name: "Ana"})
	require.NoError(t, err)
	col, _ := board.Column("novo")
	assert.Equal(t, []string{"1"}, cardIDs(col))

	_, err = store.Add("qualificado", testCard{ID: "1"})
	assert.ErrorIs(t, err, ErrDuplicateCard)

	_, err = store.Add("inexistente", testCard{ID: "2"})
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = store.Add("novo", testCard{})
	assert.ErrorIs(t, err, ErrEmptyCardID)
}

func TestStore_Update(t *testing.T) {
	store := newTestStore(t, map[string][]testCard{"qualificado": {{ID: "1", Name: "Ana"}}})

	board, err := store.Update("1", func(c testCard) testCard {
		c.Name = "Ana Souza"
		return c
	})
	require.NoError(t, err)
	col, card, _ := board.Find("1")
	assert.Equal(t, "qualificado", col.ID)
	assert.Equal(t, "Ana Souza", card.Name)

	_, err = store.Update("404", func(c testCard) testCard { return c })
	assert.ErrorIs(t, err, ErrCardNotFound)

	_, err = store.Update("1", func(c testCard) testCard {
		c.ID = "2"
		return c
	})
	assert.ErrorIs(t, err, ErrIdentityChanged)
}

func TestStore_Replace(t *testing.T) {
	store := newTestStore(t, map[string][]testCard{"novo": {{ID: "1"}}})

	board, err := store.Replace(map[string][]testCard{"qualificado": {{ID: "2"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, board.Count())

	_, err = store.Replace(map[string][]testCard{"x": {{ID: "3"}}})
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = store.Replace(map[string][]testCard{"novo": {{ID: "4"}}, "qualificado": {{ID: "4"}}})
	assert.ErrorIs(t, err, ErrDuplicateCard)
	assert.Same(t, board, store.Snapshot())
}

func TestStore_ResolveColumn(t *testing.T) {
	store := newTestStore(t, nil)

	tests := []struct {
		in   string
		want string
	}{
		{"qualificado", "qualificado"},
		{"Novo Lead", "novo"},
		{"  NOVO   lead", "novo"},
		{"PERDIDO", "perdido"},
	}
	for _, tt := range tests {
		stage, err := store.ResolveColumn(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, stage.ID)
	}

	_, err := store.ResolveColumn("Arquivado")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestGroupBy(t *testing.T) {
	store := newTestStore(t, map[string][]testCard{
		"novo":        {{ID: "1", Owner: "op-1"}, {ID: "2", Owner: "op-2"}},
		"qualificado": {{ID: "3", Owner: "op-1"}},
	})

	groups := GroupBy(store.Snapshot(), func(c testCard) string { return c.Owner })

	assert.Len(t, groups, 2)
	assert.Len(t, groups["op-1"], 2)
	assert.Len(t, groups["op-2"], 1)
}
