package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/internal/scheduler"
)

// StageSyncRunner expõe o agendador de reenvio de etapas para a API
type StageSyncRunner interface {
	TriggerManualSync()
	GetStatus() map[string]any
	Pending() []scheduler.StageSyncEntry
}

type StageSyncStatusResponse struct {
	Status  map[string]any             `json:"status"`
	Entries []scheduler.StageSyncEntry `json:"entries"`
}

// RunStageSync dispara um ciclo de reenvio fora do cron
func RunStageSync(service StageSyncRunner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunStageSync")

		service.TriggerManualSync()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"message": "Reenvio de etapas iniciado",
		})
	})
}

func StageSyncStatus(service StageSyncRunner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - StageSyncStatus")

		writeJSON(w, http.StatusOK, StageSyncStatusResponse{
			Status:  service.GetStatus(),
			Entries: service.Pending(),
		})
	})
}
