package pipeline

import (
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
)

// Card é qualquer registro posicionado em uma coluna
type Card interface {
	CardID() string
}

// Column é uma etapa com seus cards em ordem de exibição
type Column[C Card] struct {
	domain.Stage
	Cards []C `json:"cards"`
}

// Board é um instantâneo imutável do quadro. Cada alteração publica um novo
// Board; os slices de um Board publicado nunca são modificados.
type Board[C Card] struct {
	Kind    domain.BoardKind `json:"kind"`
	Version uint64           `json:"version"`
	Columns []Column[C]      `json:"columns"`
}

// Column devolve a coluna pelo ID estável
func (b *Board[C]) Column(id string) (Column[C], bool) {
	idx := b.columnIndex(id)
	if idx < 0 {
		return Column[C]{}, false
	}
	return b.Columns[idx], true
}

// Find localiza um card em qualquer coluna
func (b *Board[C]) Find(cardID string) (domain.Stage, C, bool) {
	for _, col := range b.Columns {
		if i := indexOf(col.Cards, cardID); i >= 0 {
			return col.Stage, col.Cards[i], true
		}
	}
	var zero C
	return domain.Stage{}, zero, false
}

// Count devolve o total de cards no quadro
func (b *Board[C]) Count() int {
	total := 0
	for _, col := range b.Columns {
		total += len(col.Cards)
	}
	return total
}

func (b *Board[C]) columnIndex(id string) int {
	for i, col := range b.Columns {
		if col.ID == id {
			return i
		}
	}
	return -1
}

func indexOf[C Card](cards []C, id string) int {
	for i, c := range cards {
		if c.CardID() == id {
			return i
		}
	}
	return -1
}

// GroupBy agrupa os cards do quadro por uma chave derivada. Consulta apenas.
func GroupBy[C Card](b *Board[C], key func(C) string) map[string][]C {
	groups := make(map[string][]C)
	for _, col := range b.Columns {
		for _, c := range col.Cards {
			k := key(c)
			groups[k] = append(groups[k], c)
		}
	}
	return groups
}
