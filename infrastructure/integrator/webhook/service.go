package webhook

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	webhookdomain "github.com/vfg2006/crm-pipeline-api/infrastructure/integrator/webhook/domain"
	"github.com/vfg2006/crm-pipeline-api/infrastructure/integrator/webhook/webhookclient"
	"github.com/vfg2006/crm-pipeline-api/internal/config"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/pkg/log"
	"github.com/vfg2006/crm-pipeline-api/pkg/utils"
)

type WebhookIntegrator interface {
	FetchLeadColumns(ctx context.Context) (map[string][]domain.Lead, error)
	FetchStats(ctx context.Context) (*domain.DashboardStats, error)
	Notify(ctx context.Context, event string, data any) error
	UpdateLeadStage(ctx context.Context, leadID string, stage domain.Stage) error
}

type WebhookService struct {
	client     webhookclient.Client
	source     string
	leadStages []domain.Stage
	now        func() time.Time
}

func New(cfg *config.Config, client webhookclient.Client) WebhookIntegrator {
	return &WebhookService{
		client:     client,
		source:     cfg.Webhook.Source,
		leadStages: domain.LeadStages(),
		now:        time.Now,
	}
}

// FetchLeadColumns busca os leads e os distribui pelas colunas do quadro.
// Etapas desconhecidas caem em "Novo Lead".
func (s *WebhookService) FetchLeadColumns(ctx context.Context) (map[string][]domain.Lead, error) {
	byStage, err := s.client.GetLeads(ctx)
	if err != nil {
		return nil, err
	}

	columns := make(map[string][]domain.Lead, len(s.leadStages))
	seen := make(map[string]struct{})

	// ordem estável entre grupos que caem na mesma coluna
	for _, group := range slices.Sorted(maps.Keys(byStage)) {
		for _, record := range byStage[group] {
			lead := s.toLead(group, record)
			if lead.ID == "" {
				log.ForContext(ctx).WithField("stage", group).Warn("Lead sem identificador ignorado")
				continue
			}
			if _, dup := seen[lead.ID]; dup {
				log.ForContext(ctx).WithField("lead_id", lead.ID).Warn("Lead repetido na resposta do webhook ignorado")
				continue
			}
			seen[lead.ID] = struct{}{}
			columns[lead.Stage] = append(columns[lead.Stage], lead)
		}
	}

	return columns, nil
}

func (s *WebhookService) FetchStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := s.client.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardStats{
		TotalValue:       utils.RoundWithTwoDecimalPlace(stats.TotalValue),
		ConversionRate:   utils.RoundWithTwoDecimalPlace(stats.ConversionRate),
		ActiveLeads:      stats.ActiveLeads,
		PendingProposals: stats.PendingProposals,
		GrowthPercentage: utils.RoundWithTwoDecimalPlace(stats.GrowthPercentage),
	}, nil
}

// Notify envia um evento de negócio. Falhas são registradas com o corpo da
// resposta e devolvidas para quem chamou decidir.
func (s *WebhookService) Notify(ctx context.Context, event string, data any) error {
	envelope := domain.Event{
		Event:     event,
		Timestamp: s.now().UTC(),
		Source:    s.source,
		Data:      data,
	}

	err := s.client.SendEvent(ctx, envelope)
	if err != nil {
		fields := log.Fields{
			"event":     event,
			"timestamp": envelope.Timestamp.Format(time.RFC3339),
		}
		var statusErr *webhookclient.StatusError
		if errors.As(err, &statusErr) {
			fields["status_code"] = statusErr.StatusCode
			fields["body"] = statusErr.Body
		}
		log.ForContext(ctx).WithFields(fields).WithError(err).Error("Falha ao enviar evento ao webhook")
		return err
	}

	logrus.WithField("event", event).Debug("Evento enviado ao webhook")
	return nil
}

func (s *WebhookService) UpdateLeadStage(ctx context.Context, leadID string, stage domain.Stage) error {
	return s.client.UpdateLeadStage(ctx, webhookdomain.LeadStageUpdate{
		LeadID: leadID,
		Stage:  stage.Title,
	})
}

func (s *WebhookService) toLead(group string, record webhookdomain.LeadRecord) domain.Lead {
	stageName := record.Stage
	if strings.TrimSpace(stageName) == "" {
		stageName = group
	}

	lead := domain.Lead{
		ID:                     strings.TrimSpace(string(record.ID)),
		Name:                   strings.TrimSpace(record.Name),
		Email:                  strings.TrimSpace(record.Email),
		Phone:                  strings.TrimSpace(record.Phone),
		DDI:                    strings.TrimSpace(record.DDI),
		ExternalID:             strings.TrimSpace(string(record.ExternalID)),
		Stage:                  s.resolveStage(stageName),
		DisqualificationReason: strings.TrimSpace(record.DisqualificationReason),
		Observation:            record.Observation,
		UpdatedAt:              parseTime(record.UpdatedAt),
	}

	lead.FullPhone = utils.FullPhone(lead.DDI, lead.Phone)
	lead.Source = domain.LeadSourceManual
	if lead.ExternalID != "" {
		lead.Source = domain.LeadSourceExternal
	}

	for _, task := range record.Tasks {
		t := domain.LeadTask{
			ID:    string(task.ID),
			Title: task.Title,
			Done:  task.Done,
		}
		if due := parseTime(task.DueDate); !due.IsZero() {
			t.DueDate = &due
		}
		lead.Tasks = append(lead.Tasks, t)
	}
	for _, rec := range record.Records {
		lead.Records = append(lead.Records, domain.LeadRecord{
			ID:        string(rec.ID),
			Kind:      rec.Kind,
			Note:      rec.Note,
			CreatedAt: parseTime(rec.CreatedAt),
		})
	}

	switch {
	case lead.Stage != domain.LeadStageDisqualified:
		lead.DisqualificationReason = ""
	case lead.DisqualificationReason == "":
		logrus.WithFields(logrus.Fields{
			"lead_id": lead.ID,
			"stage":   lead.Stage,
		}).Warn("Lead desqualificado sem motivo no webhook")
		lead.DisqualificationReason = domain.LeadReasonNotInformed
	}

	return lead
}

// resolveStage aceita o ID ou o título da etapa
func (s *WebhookService) resolveStage(name string) string {
	normalized := utils.NormalizeTitle(name)
	for _, stage := range s.leadStages {
		if stage.ID == strings.TrimSpace(name) || utils.NormalizeTitle(stage.Title) == normalized {
			return stage.ID
		}
	}
	return domain.LeadStageNew
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
