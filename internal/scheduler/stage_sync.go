package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/internal/config"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
)

const defaultStageSyncMaxAttempts = 10

// LeadStageUpdater publica a etapa atual de um lead no sistema externo
type LeadStageUpdater interface {
	UpdateLeadStage(ctx context.Context, leadID string, stage domain.Stage) error
}

// StageSyncConfig representa a configuração do reenvio de etapas de leads
type StageSyncConfig struct {
	CronSchedule string
	MaxAttempts  int
	SyncEnabled  bool
}

// StageSyncEntry é uma mudança de etapa ainda não confirmada pelo webhook
type StageSyncEntry struct {
	LeadID        string       `json:"leadId"`
	Stage         domain.Stage `json:"stage"`
	Attempts      int          `json:"attempts"`
	LastError     string       `json:"lastError,omitempty"`
	EnqueuedAt    time.Time    `json:"enqueuedAt"`
	LastAttemptAt time.Time    `json:"lastAttemptAt,omitempty"`

	generation uint64
}

// StageSyncService mantém uma fila com no máximo uma entrada por lead (a
// etapa mais recente vence) e a reenvia periodicamente até o webhook aceitar.
type StageSyncService struct {
	scheduler *gocron.Scheduler
	config    StageSyncConfig
	updater   LeadStageUpdater
	now       func() time.Time

	mu         sync.Mutex
	queue      map[string]*StageSyncEntry
	generation uint64
	delivered  int
	dropped    int

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewStageSyncService(updater LeadStageUpdater, appConfig *config.Config) *StageSyncService {
	syncConfig := StageSyncConfig{
		CronSchedule: appConfig.StageSync.CronSchedule,
		MaxAttempts:  appConfig.StageSync.MaxAttempts,
		SyncEnabled:  appConfig.StageSync.Enabled,
	}
	if syncConfig.MaxAttempts <= 0 {
		syncConfig.MaxAttempts = defaultStageSyncMaxAttempts
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"max_attempts":  syncConfig.MaxAttempts,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do reenvio de etapas de leads carregada")

	return &StageSyncService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    syncConfig,
		updater:   updater,
		now:       time.Now,
		queue:     make(map[string]*StageSyncEntry),
	}
}

// Start inicia o agendador
func (s *StageSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Reenvio de etapas de leads desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de reenvio de etapas de leads")

	_, err := s.scheduler.CronWithSeconds(s.config.CronSchedule).Do(func() {
		s.RetryPending(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar reenvio de etapas de leads: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de reenvio de etapas de leads")
		s.scheduler.Stop()
	}()

	return nil
}

// Submit registra a etapa desejada do lead e tenta enviá-la imediatamente.
// Em caso de falha a entrada fica na fila para o próximo ciclo.
func (s *StageSyncService) Submit(ctx context.Context, leadID string, stage domain.Stage) error {
	entry := s.enqueue(leadID, stage)
	return s.attempt(ctx, entry)
}

// Enqueue registra a etapa desejada sem enviá-la. A partir do retorno o
// Overlay já enxerga a etapa.
func (s *StageSyncService) Enqueue(leadID string, stage domain.Stage) {
	s.enqueue(leadID, stage)
}

// Flush tenta enviar a entrada atual do lead, se houver
func (s *StageSyncService) Flush(ctx context.Context, leadID string) error {
	s.mu.Lock()
	current, ok := s.queue[leadID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	entry := *current
	s.mu.Unlock()

	return s.attempt(ctx, &entry)
}

// Overlay devolve a etapa pendente de envio, para que uma recarga do webhook
// não desfaça uma movimentação local ainda não confirmada
func (s *StageSyncService) Overlay(leadID string) (domain.Stage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.queue[leadID]
	if !ok {
		return domain.Stage{}, false
	}
	return entry.Stage, true
}

// Pending lista as entradas aguardando envio, da mais antiga para a mais nova
func (s *StageSyncService) Pending() []StageSyncEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]StageSyncEntry, 0, len(s.queue))
	for _, entry := range s.queue {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].generation < entries[j].generation
	})
	return entries
}

// RetryPending executa um ciclo de reenvio sobre toda a fila
func (s *StageSyncService) RetryPending(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Reenvio de etapas de leads já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = s.now()
		s.syncMutex.Unlock()
	}()

	entries := s.Pending()
	if len(entries) == 0 {
		return
	}

	failed := 0
	for i := range entries {
		if err := s.attempt(ctx, &entries[i]); err != nil {
			failed++
		}
	}

	logrus.WithFields(logrus.Fields{
		"entries": len(entries),
		"failed":  failed,
	}).Info("Ciclo de reenvio de etapas de leads concluído")
}

// TriggerManualSync inicia manualmente um ciclo de reenvio
func (s *StageSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Reenvio de etapas de leads já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando reenvio manual de etapas de leads")
	go s.RetryPending(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *StageSyncService) GetStatus() map[string]any {
	s.mu.Lock()
	pending, delivered, dropped := len(s.queue), s.delivered, s.dropped
	s.mu.Unlock()

	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"max_attempts":           s.config.MaxAttempts,
		"pending":                pending,
		"delivered":              delivered,
		"dropped":                dropped,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}

func (s *StageSyncService) enqueue(leadID string, stage domain.Stage) *StageSyncEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	entry := &StageSyncEntry{
		LeadID:     leadID,
		Stage:      stage,
		EnqueuedAt: s.now(),
		generation: s.generation,
	}
	s.queue[leadID] = entry

	cp := *entry
	return &cp
}

// attempt envia uma entrada. O resultado só é aplicado na fila se a entrada
// não foi substituída por uma etapa mais nova durante o envio.
func (s *StageSyncService) attempt(ctx context.Context, entry *StageSyncEntry) error {
	err := s.updater.UpdateLeadStage(ctx, entry.LeadID, entry.Stage)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.queue[entry.LeadID]
	if !ok || current.generation != entry.generation {
		return err
	}

	fields := logrus.Fields{
		"lead_id": entry.LeadID,
		"stage":   entry.Stage.ID,
	}

	if err == nil {
		delete(s.queue, entry.LeadID)
		s.delivered++
		logrus.WithFields(fields).Debug("Etapa do lead sincronizada")
		return nil
	}

	current.Attempts++
	current.LastError = err.Error()
	current.LastAttemptAt = s.now()
	fields["attempts"] = current.Attempts

	if current.Attempts >= s.config.MaxAttempts {
		delete(s.queue, entry.LeadID)
		s.dropped++
		logrus.WithFields(fields).WithError(err).Error("Etapa do lead descartada após exceder o número de tentativas")
		return err
	}

	logrus.WithFields(fields).WithError(err).Warn("Falha ao sincronizar etapa do lead, nova tentativa agendada")
	return err
}
