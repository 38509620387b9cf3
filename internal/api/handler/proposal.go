package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/proposing"
)

// ProposalsByOpportunity agrupa as propostas pelo id da oportunidade
func ProposalsByOpportunity(service proposing.ProposalService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ProposalsByOpportunity")

		writeJSON(w, http.StatusOK, service.ByOpportunity())
	})
}
