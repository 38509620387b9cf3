package leading

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/guarding"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/pipeline"
	"github.com/vfg2006/crm-pipeline-api/pkg/apiErrors"
	"github.com/vfg2006/crm-pipeline-api/pkg/cache"
	"github.com/vfg2006/crm-pipeline-api/pkg/log"
	"github.com/vfg2006/crm-pipeline-api/pkg/utils"
)

type LeadColumns = map[string][]domain.Lead

type LeadService interface {
	ListLeads(ctx context.Context, forceRefresh bool) (*domain.LeadBoardResponse, error)
	CreateLead(ctx context.Context, request *domain.CreateLeadRequest) (*domain.Lead, error)
	Mover() guarding.Mover
}

type Service struct {
	store      *pipeline.Store[domain.Lead]
	controller *guarding.Controller[domain.Lead]
	mover      *leadMover
	fetcher    *cache.Fetcher[LeadColumns]
	source     LeadSource
	syncer     StageSyncer
	now        func() time.Time
	newID      func() (string, error)

	// serializa criação, recarga e commits de movimentação: a checagem de
	// duplicidade enxerga o mesmo quadro em que o lead será inserido
	mu        sync.Mutex
	loadedAt  time.Time
	localOnly map[string]struct{}
}

func NewService(
	backend cache.Backend,
	ttl time.Duration,
	source LeadSource,
	syncer StageSyncer,
	opts ...guarding.Option[domain.Lead],
) (*Service, error) {
	s := &Service{
		source:    source,
		syncer:    syncer,
		now:       time.Now,
		newID:     utils.GenerateID,
		localOnly: make(map[string]struct{}),
	}

	store, err := pipeline.NewStore[domain.Lead](domain.BoardLeads, domain.LeadStages(), s.transition)
	if err != nil {
		return nil, err
	}

	s.store = store
	s.fetcher = cache.NewFetcher[LeadColumns](backend, cache.KeyLeads, ttl, source.FetchLeadColumns)

	opts = append(opts,
		guarding.WithInlineHook[domain.Lead](s.enqueueStage),
		guarding.WithHook[domain.Lead](s.syncStage),
	)
	s.controller = guarding.NewController(store, guarding.GuardTerminalNegative, opts...)
	s.mover = &leadMover{Controller: s.controller, service: s}

	return s, nil
}

func (s *Service) Mover() guarding.Mover { return s.mover }

// ListLeads busca os leads pelo cache. Dados mais novos do que os já
// aplicados recarregam o quadro, preservando etapas ainda não sincronizadas
// e leads criados localmente.
func (s *Service) ListLeads(ctx context.Context, forceRefresh bool) (*domain.LeadBoardResponse, error) {
	result := s.fetcher.Get(ctx, forceRefresh)

	response := &domain.LeadBoardResponse{Stale: result.Stale}
	if result.Err != nil {
		response.Error = result.Err.Error()
	}

	if result.HasValue {
		fetchedAt := result.FetchedAt
		response.FetchedAt = &fetchedAt
		if err := s.reload(ctx, result.Value, fetchedAt); err != nil {
			return nil, err
		}
	}

	response.Board = s.store.Snapshot()
	return response, nil
}

// CreateLead valida e insere um novo lead em "Novo Lead"
func (s *Service) CreateLead(ctx context.Context, request *domain.CreateLeadRequest) (*domain.Lead, error) {
	lead, err := s.buildLead(request)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := s.checkDuplicates(lead); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if _, err := s.store.Add(domain.LeadStageNew, *lead); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.localOnly[lead.ID] = struct{}{}
	s.mu.Unlock()

	log.ForContext(ctx).WithField("lead_id", lead.ID).Info("Lead criado")

	// falha já registrada pelo integrador; o lead permanece no quadro
	_ = s.source.Notify(ctx, domain.EventLeadCreated, lead)

	return lead, nil
}

func (s *Service) buildLead(request *domain.CreateLeadRequest) (*domain.Lead, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, NewLeadError(ErrNameRequired, apiErrors.ErrMissingRequiredData, "nome é obrigatório")
	}

	phone := strings.TrimSpace(request.Phone)
	if utils.DigitsOnly(phone) == "" {
		return nil, NewLeadError(ErrPhoneRequired, apiErrors.ErrMissingRequiredData, "telefone é obrigatório")
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, NewLeadError(ErrInvalidEmail, apiErrors.ErrInvalidFormat, email)
		}
	}

	id, err := s.newID()
	if err != nil {
		return nil, NewLeadError(ErrGenerateID, apiErrors.ErrInternalServer, err.Error())
	}

	ddi := utils.DigitsOnly(request.DDI)
	return &domain.Lead{
		ID:          id,
		Name:        name,
		Email:       email,
		Phone:       phone,
		DDI:         ddi,
		FullPhone:   utils.FullPhone(ddi, phone),
		Source:      domain.LeadSourceManual,
		Stage:       domain.LeadStageNew,
		Observation: strings.TrimSpace(request.Observation),
		UpdatedAt:   s.now(),
	}, nil
}

func (s *Service) checkDuplicates(lead *domain.Lead) error {
	phoneKey := phoneDigits(*lead)

	for _, col := range s.store.Snapshot().Columns {
		for _, existing := range col.Cards {
			if phoneKey != "" && phoneDigits(existing) == phoneKey {
				return NewLeadErrorWithID(ErrDuplicatePhone, apiErrors.ErrDuplicatePhone, existing.ID, lead.FullPhone)
			}
			if lead.Email != "" && strings.EqualFold(strings.TrimSpace(existing.Email), lead.Email) {
				return NewLeadErrorWithID(ErrDuplicateEmail, apiErrors.ErrDuplicateEmail, existing.ID, lead.Email)
			}
		}
	}
	return nil
}

func phoneDigits(lead domain.Lead) string {
	if lead.FullPhone != "" {
		return utils.DigitsOnly(lead.FullPhone)
	}
	return utils.DigitsOnly(utils.FullPhone(lead.DDI, lead.Phone))
}

func (s *Service) reload(ctx context.Context, remote LeadColumns, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fetchedAt.After(s.loadedAt) {
		return nil
	}

	current := s.store.Snapshot()
	columns := make(LeadColumns, len(remote))
	seen := make(map[string]struct{})

	for columnID, leads := range remote {
		for _, lead := range leads {
			seen[lead.ID] = struct{}{}
			delete(s.localOnly, lead.ID)

			if stage, pending := s.syncer.Overlay(lead.ID); pending && stage.ID != columnID {
				lead.Stage = stage.ID
				if _, local, ok := current.Find(lead.ID); ok {
					lead.DisqualificationReason = local.DisqualificationReason
				}
				columns[stage.ID] = append(columns[stage.ID], lead)
				continue
			}
			columns[columnID] = append(columns[columnID], lead)
		}
	}

	for id := range s.localOnly {
		if _, ok := seen[id]; ok {
			continue
		}
		if stage, lead, ok := current.Find(id); ok {
			columns[stage.ID] = append(columns[stage.ID], lead)
		}
	}

	if _, err := s.store.Replace(columns); err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao recarregar quadro de leads")
		return err
	}
	s.loadedAt = fetchedAt

	logrus.WithFields(logrus.Fields{
		"board": domain.BoardLeads,
		"leads": len(seen),
	}).Debug("Quadro de leads recarregado")

	return nil
}

func (s *Service) transition(lead domain.Lead, _, to domain.Stage, reason string) domain.Lead {
	lead.Stage = to.ID
	lead.DisqualificationReason = ""
	if to.IsTerminalNegative() {
		lead.DisqualificationReason = reason
	}
	lead.UpdatedAt = s.now()
	return lead
}

// enqueueStage roda dentro do commit, com s.mu já adquirido pelo leadMover
func (s *Service) enqueueStage(_ context.Context, lead domain.Lead, _, to domain.Stage) {
	s.syncer.Enqueue(lead.ID, to)
}

// syncStage é o hook pós-commit: envia a etapa enfileirada e, em caso de
// falha, deixa o reenvio a cargo do StageSyncer
func (s *Service) syncStage(ctx context.Context, lead domain.Lead, _, to domain.Stage) {
	if err := s.syncer.Flush(ctx, lead.ID); err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"lead_id": lead.ID,
			"stage":   to.ID,
		}).WithError(err).Warn("Sincronização de etapa falhou, reenvio agendado")
	}
}
