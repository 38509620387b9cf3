package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/reporting"
)

func GetStats(service reporting.StatsService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetStats")

		writeJSON(w, http.StatusOK, service.GetStats(r.Context(), forceRefresh(r)))
	})
}
