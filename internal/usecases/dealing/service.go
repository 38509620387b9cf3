package dealing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/guarding"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/pipeline"
	"github.com/vfg2006/crm-pipeline-api/pkg/log"
	"github.com/vfg2006/crm-pipeline-api/pkg/utils"
)

// Notifier envia eventos de negócio ao webhook
type Notifier interface {
	Notify(ctx context.Context, event string, data any) error
}

type OpportunityService interface {
	CreateOpportunity(ctx context.Context, request *domain.CreateOpportunityRequest) (*domain.Opportunity, error)
	UpdateOpportunity(ctx context.Context, id string, request *domain.UpdateOpportunityRequest) (*domain.Opportunity, error)
	ColumnTotals() map[string]float64
	Mover() guarding.Mover
}

type Service struct {
	store      *pipeline.Store[domain.Opportunity]
	controller *guarding.Controller[domain.Opportunity]
	notifier   Notifier
	now        func() time.Time
	newID      func() (string, error)
}

func NewService(notifier Notifier, opts ...guarding.Option[domain.Opportunity]) (*Service, error) {
	s := &Service{
		notifier: notifier,
		now:      time.Now,
		newID:    utils.GenerateID,
	}

	store, err := pipeline.NewStore[domain.Opportunity](domain.BoardOpportunities, domain.OpportunityStages(), s.transition)
	if err != nil {
		return nil, err
	}
	s.store = store

	opts = append(opts, guarding.WithHook[domain.Opportunity](s.notifyStageChange))
	s.controller = guarding.NewController(store, guarding.GuardTerminalNegative, opts...)

	return s, nil
}

func (s *Service) Mover() guarding.Mover { return s.controller }

// CreateOpportunity insere a oportunidade na etapa informada (por ID ou
// título), ou em "Prospecção" quando omitida
func (s *Service) CreateOpportunity(ctx context.Context, request *domain.CreateOpportunityRequest) (*domain.Opportunity, error) {
	title := strings.TrimSpace(request.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if request.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	stage := domain.OpportunityStages()[0]
	if strings.TrimSpace(request.Stage) != "" {
		resolved, err := s.store.ResolveColumn(request.Stage)
		if err != nil {
			return nil, err
		}
		stage = resolved
	}
	if stage.IsTerminalNegative() {
		return nil, ErrInvalidStage
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("gerar id da oportunidade: %w", err)
	}

	opportunity := domain.Opportunity{
		ID:          id,
		Title:       title,
		Company:     strings.TrimSpace(request.Company),
		Contact:     strings.TrimSpace(request.Contact),
		Amount:      utils.RoundWithTwoDecimalPlace(request.Amount),
		Status:      stage.Title,
		StatusColor: stage.Color,
		UpdatedAt:   s.now(),
	}

	if _, err := s.store.Add(stage.ID, opportunity); err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"card_id": opportunity.ID,
		"stage":   stage.ID,
	}).Info("Oportunidade criada")

	_ = s.notifier.Notify(ctx, domain.EventOpportunityCreated, opportunity)

	return &opportunity, nil
}

// UpdateOpportunity edita a oportunidade sem tirá-la da coluna
func (s *Service) UpdateOpportunity(ctx context.Context, id string, request *domain.UpdateOpportunityRequest) (*domain.Opportunity, error) {
	if request.Title != nil && strings.TrimSpace(*request.Title) == "" {
		return nil, ErrTitleRequired
	}
	if request.Amount != nil && *request.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	board, err := s.store.Update(id, func(o domain.Opportunity) domain.Opportunity {
		if request.Title != nil {
			o.Title = strings.TrimSpace(*request.Title)
		}
		if request.Company != nil {
			o.Company = strings.TrimSpace(*request.Company)
		}
		if request.Contact != nil {
			o.Contact = strings.TrimSpace(*request.Contact)
		}
		if request.Amount != nil {
			o.Amount = utils.RoundWithTwoDecimalPlace(*request.Amount)
		}
		o.UpdatedAt = s.now()
		return o
	})
	if err != nil {
		return nil, err
	}

	stage, opportunity, _ := board.Find(id)

	log.ForContext(ctx).WithFields(log.Fields{
		"card_id": id,
		"stage":   stage.ID,
	}).Info("Oportunidade atualizada")

	_ = s.notifier.Notify(ctx, domain.EventOpportunityUpdated, opportunity)

	return &opportunity, nil
}

// ColumnTotals soma o valor das oportunidades de cada coluna
func (s *Service) ColumnTotals() map[string]float64 {
	board := s.store.Snapshot()
	totals := make(map[string]float64, len(board.Columns))
	for _, col := range board.Columns {
		amounts := make([]float64, len(col.Cards))
		for i, o := range col.Cards {
			amounts[i] = o.Amount
		}
		totals[col.ID] = utils.SumCents(amounts...)
	}
	return totals
}

// transition mantém status e cor alinhados à etapa; o motivo de perda só
// existe enquanto a oportunidade estiver em "Perdido"
func (s *Service) transition(o domain.Opportunity, _, to domain.Stage, reason string) domain.Opportunity {
	o.Status = to.Title
	o.StatusColor = to.Color
	o.LossReason = ""
	if to.IsTerminalNegative() {
		o.LossReason = reason
	}
	o.UpdatedAt = s.now()
	return o
}

func (s *Service) notifyStageChange(ctx context.Context, o domain.Opportunity, from, to domain.Stage) {
	_ = s.notifier.Notify(ctx, domain.EventOpportunityStageChanged, domain.StageChange{
		CardID:    o.ID,
		FromStage: from.Title,
		ToStage:   to.Title,
		Reason:    o.LossReason,
	})
}
