package tasking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/guarding"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/pipeline"
	"github.com/vfg2006/crm-pipeline-api/pkg/log"
	"github.com/vfg2006/crm-pipeline-api/pkg/utils"
)

var ErrTitleRequired = errors.New("card title is required")

type TaskService interface {
	CreateCard(ctx context.Context, request *domain.CreateTaskCardRequest) (*domain.TaskCard, error)
	Mover() guarding.Mover
}

// Service mantém o quadro de tarefas; nenhuma etapa é protegida
type Service struct {
	store      *pipeline.Store[domain.TaskCard]
	controller *guarding.Controller[domain.TaskCard]
	newID      func() (string, error)
}

func NewService(opts ...guarding.Option[domain.TaskCard]) (*Service, error) {
	store, err := pipeline.NewStore[domain.TaskCard](domain.BoardCards, domain.CardStages(), transition)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:      store,
		controller: guarding.NewController(store, guarding.GuardTerminalNegative, opts...),
		newID:      utils.GenerateID,
	}, nil
}

func (s *Service) Mover() guarding.Mover { return s.controller }

func (s *Service) CreateCard(ctx context.Context, request *domain.CreateTaskCardRequest) (*domain.TaskCard, error) {
	title := strings.TrimSpace(request.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("gerar id do card: %w", err)
	}

	card := domain.TaskCard{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(request.Description),
		Assignee:    strings.TrimSpace(request.Assignee),
		DueDate:     request.DueDate,
	}

	if _, err := s.store.Add(domain.CardStageTodo, card); err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithField("card_id", card.ID).Info("Card criado")

	return &card, nil
}

// transition marca o card como concluído apenas na última etapa
func transition(card domain.TaskCard, _, to domain.Stage, _ string) domain.TaskCard {
	card.Done = to.Category == domain.StageWon
	return card
}
