package pipeline

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/pkg/utils"
)

// Transition recalcula os campos de domínio de um card ao mudar de etapa:
// status, cor e o motivo de perda/desqualificação (vazio quando o destino
// não é terminal negativo).
type Transition[C Card] func(card C, from, to domain.Stage, reason string) C

// Store é o dono do mapeamento card → coluna de um quadro
type Store[C Card] struct {
	mu         sync.RWMutex
	board      *Board[C]
	titles     map[string]string
	transition Transition[C]
}

// NewStore cria um quadro vazio com as etapas informadas. IDs e títulos
// normalizados precisam ser únicos.
func NewStore[C Card](kind domain.BoardKind, stages []domain.Stage, transition Transition[C]) (*Store[C], error) {
	titles := make(map[string]string, len(stages))
	ids := make(map[string]struct{}, len(stages))
	columns := make([]Column[C], 0, len(stages))

	for _, stage := range stages {
		if stage.ID == "" {
			return nil, ErrColumnNotFound
		}
		normalized := utils.NormalizeTitle(stage.Title)
		if _, dup := ids[stage.ID]; dup {
			return nil, ErrDuplicateColumn
		}
		if _, dup := titles[normalized]; dup {
			return nil, ErrDuplicateColumn
		}
		ids[stage.ID] = struct{}{}
		titles[normalized] = stage.ID
		columns = append(columns, Column[C]{Stage: stage, Cards: []C{}})
	}

	return &Store[C]{
		board:      &Board[C]{Kind: kind, Columns: columns},
		titles:     titles,
		transition: transition,
	}, nil
}

// Snapshot devolve o quadro atual
func (s *Store[C]) Snapshot() *Board[C] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// ResolveColumn aceita o ID estável ou o título (com qualquer caixa/acentuação)
// e devolve a etapa correspondente. Títulos só devem ser aceitos na borda.
func (s *Store[C]) ResolveColumn(idOrTitle string) (domain.Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if col, ok := s.board.Column(idOrTitle); ok {
		return col.Stage, nil
	}
	if id, ok := s.titles[utils.NormalizeTitle(idOrTitle)]; ok {
		col, _ := s.board.Column(id)
		return col.Stage, nil
	}
	return domain.Stage{}, ErrColumnNotFound
}

// Move retira o card da coluna de origem e o anexa, atualizado, ao fim da
// coluna de destino, como uma única troca de instantâneo. Em qualquer
// rejeição o quadro anterior é devolvido sem alteração.
func (s *Store[C]) Move(req domain.MoveRequest) (*Board[C], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.board

	if req.SourceColumnID == req.DestColumnID {
		return prev, ErrSameColumn
	}

	srcIdx := prev.columnIndex(req.SourceColumnID)
	dstIdx := prev.columnIndex(req.DestColumnID)
	if srcIdx < 0 || dstIdx < 0 {
		return prev, ErrColumnNotFound
	}

	src := prev.Columns[srcIdx]
	dst := prev.Columns[dstIdx]

	cardIdx := indexOf(src.Cards, req.CardID)
	if cardIdx < 0 {
		logrus.WithFields(logrus.Fields{
			"board":   prev.Kind,
			"card_id": req.CardID,
			"column":  src.ID,
		}).Debug("Card não encontrado na coluna de origem, movimentação ignorada")
		return prev, ErrCardNotFound
	}

	reason := strings.TrimSpace(req.Reason)
	if dst.IsTerminalNegative() && reason == "" {
		return prev, ErrReasonRequired
	}

	card := src.Cards[cardIdx]
	if s.transition != nil {
		card = s.transition(card, src.Stage, dst.Stage, reason)
	}
	if card.CardID() != req.CardID {
		return prev, ErrIdentityChanged
	}

	srcCards := make([]C, 0, len(src.Cards)-1)
	srcCards = append(srcCards, src.Cards[:cardIdx]...)
	srcCards = append(srcCards, src.Cards[cardIdx+1:]...)

	dstCards := make([]C, 0, len(dst.Cards)+1)
	dstCards = append(dstCards, dst.Cards...)
	dstCards = append(dstCards, card)

	next := prev.clone()
	next.Columns[srcIdx].Cards = srcCards
	next.Columns[dstIdx].Cards = dstCards
	s.board = next

	return next, nil
}

// Add anexa um card novo ao fim da coluna
func (s *Store[C]) Add(columnID string, card C) (*Board[C], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.board
	if card.CardID() == "" {
		return prev, ErrEmptyCardID
	}

	idx := prev.columnIndex(columnID)
	if idx < 0 {
		return prev, ErrColumnNotFound
	}
	if _, _, exists := prev.Find(card.CardID()); exists {
		return prev, ErrDuplicateCard
	}

	cards := make([]C, 0, len(prev.Columns[idx].Cards)+1)
	cards = append(cards, prev.Columns[idx].Cards...)
	cards = append(cards, card)

	next := prev.clone()
	next.Columns[idx].Cards = cards
	s.board = next

	return next, nil
}

// Update edita um card no lugar, sem mudar sua coluna
func (s *Store[C]) Update(cardID string, fn func(C) C) (*Board[C], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.board
	for colIdx, col := range prev.Columns {
		i := indexOf(col.Cards, cardID)
		if i < 0 {
			continue
		}

		updated := fn(col.Cards[i])
		if updated.CardID() != cardID {
			return prev, ErrIdentityChanged
		}

		cards := make([]C, len(col.Cards))
		copy(cards, col.Cards)
		cards[i] = updated

		next := prev.clone()
		next.Columns[colIdx].Cards = cards
		s.board = next
		return next, nil
	}

	return prev, ErrCardNotFound
}

// Replace recarrega todos os cards, por exemplo após uma busca remota.
// Colunas ausentes do mapa ficam vazias.
func (s *Store[C]) Replace(cardsByColumn map[string][]C) (*Board[C], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.board
	for columnID := range cardsByColumn {
		if prev.columnIndex(columnID) < 0 {
			return prev, ErrColumnNotFound
		}
	}

	seen := make(map[string]struct{})
	next := prev.clone()
	for i := range next.Columns {
		incoming := cardsByColumn[next.Columns[i].ID]
		cards := make([]C, 0, len(incoming))
		for _, c := range incoming {
			if _, dup := seen[c.CardID()]; dup {
				return prev, ErrDuplicateCard
			}
			seen[c.CardID()] = struct{}{}
			cards = append(cards, c)
		}
		next.Columns[i].Cards = cards
	}
	s.board = next

	return next, nil
}

// clone copia o cabeçalho das colunas; os slices de cards continuam
// compartilhados até serem substituídos.
func (b *Board[C]) clone() *Board[C] {
	columns := make([]Column[C], len(b.Columns))
	copy(columns, b.Columns)
	return &Board[C]{Kind: b.Kind, Version: b.Version + 1, Columns: columns}
}
