package proposing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/guarding"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/pipeline"
	"github.com/vfg2006/crm-pipeline-api/pkg/log"
	"github.com/vfg2006/crm-pipeline-api/pkg/utils"
)

var (
	ErrTitleRequired = errors.New("proposal title is required")
	ErrInvalidValue  = errors.New("proposal value must not be negative")
)

// Notifier envia eventos de negócio ao webhook
type Notifier interface {
	Notify(ctx context.Context, event string, data any) error
}

type ProposalService interface {
	CreateProposal(ctx context.Context, request *domain.CreateProposalRequest) (*domain.Proposal, error)
	ByOpportunity() map[string][]domain.Proposal
	Mover() guarding.Mover
}

// Service mantém o quadro de propostas. Toda mudança de etapa exige
// confirmação explícita.
type Service struct {
	store      *pipeline.Store[domain.Proposal]
	controller *guarding.Controller[domain.Proposal]
	notifier   Notifier
	now        func() time.Time
	newID      func() (string, error)
}

func NewService(notifier Notifier, opts ...guarding.Option[domain.Proposal]) (*Service, error) {
	s := &Service{
		notifier: notifier,
		now:      time.Now,
		newID:    utils.GenerateID,
	}

	store, err := pipeline.NewStore[domain.Proposal](domain.BoardProposals, domain.ProposalStages(), s.transition)
	if err != nil {
		return nil, err
	}
	s.store = store

	opts = append(opts, guarding.WithHook[domain.Proposal](s.notifyStageChange))
	s.controller = guarding.NewController(store, guarding.ConfirmAll, opts...)

	return s, nil
}

func (s *Service) Mover() guarding.Mover { return s.controller }

func (s *Service) CreateProposal(ctx context.Context, request *domain.CreateProposalRequest) (*domain.Proposal, error) {
	title := strings.TrimSpace(request.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if request.Value < 0 {
		return nil, ErrInvalidValue
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("gerar id da proposta: %w", err)
	}

	draft := domain.ProposalStages()[0]
	proposal := domain.Proposal{
		ID:            id,
		Title:         title,
		OpportunityID: strings.TrimSpace(request.OpportunityID),
		Value:         utils.RoundWithTwoDecimalPlace(request.Value),
		Status:        draft.Title,
		UpdatedAt:     s.now(),
	}

	if _, err := s.store.Add(draft.ID, proposal); err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithField("card_id", proposal.ID).Info("Proposta criada")

	_ = s.notifier.Notify(ctx, domain.EventProposalCreated, proposal)

	return &proposal, nil
}

// ByOpportunity agrupa as propostas pela oportunidade de origem. Propostas
// sem oportunidade ficam sob a chave vazia.
func (s *Service) ByOpportunity() map[string][]domain.Proposal {
	return pipeline.GroupBy(s.store.Snapshot(), func(p domain.Proposal) string {
		return p.OpportunityID
	})
}

func (s *Service) transition(p domain.Proposal, _, to domain.Stage, _ string) domain.Proposal {
	p.Status = to.Title
	p.UpdatedAt = s.now()
	return p
}

func (s *Service) notifyStageChange(ctx context.Context, p domain.Proposal, from, to domain.Stage) {
	_ = s.notifier.Notify(ctx, domain.EventProposalStageChanged, domain.StageChange{
		CardID:    p.ID,
		FromStage: from.Title,
		ToStage:   to.Title,
	})
}
