package handler

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/leading"
	"github.com/vfg2006/crm-pipeline-api/pkg/apiErrors"
)

func forceRefresh(r *http.Request) bool {
	refresh, err := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return err == nil && refresh
}

// ListLeads responde sempre 200; falhas do webhook aparecem em stale/error
func ListLeads(service leading.LeadService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ListLeads")

		response, err := service.ListLeads(r.Context(), forceRefresh(r))
		if err != nil {
			writeUseCaseError(w, r, err, nil)
			return
		}

		writeJSON(w, http.StatusOK, response)
	})
}

func CreateLead(service leading.LeadService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateLead")

		var request domain.CreateLeadRequest
		if err := decodeBody(r, &request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
			return
		}

		lead, err := service.CreateLead(r.Context(), &request)
		if err != nil {
			writeUseCaseError(w, r, err, nil)
			return
		}

		writeJSON(w, http.StatusCreated, lead)
	})
}
