package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/crm-pipeline-api/internal/usecases/dealing"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/guarding"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/leading"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/pipeline"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/proposing"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/tasking"
	"github.com/vfg2006/crm-pipeline-api/pkg/apiErrors"
	"github.com/vfg2006/crm-pipeline-api/pkg/log"
)

var sentinelCodes = []struct {
	err  error
	code string
}{
	{pipeline.ErrSameColumn, apiErrors.ErrSameColumn},
	{pipeline.ErrCardNotFound, apiErrors.ErrCardNotFound},
	{pipeline.ErrColumnNotFound, apiErrors.ErrColumnNotFound},
	{pipeline.ErrReasonRequired, apiErrors.ErrReasonRequired},
	{guarding.ErrMovePending, apiErrors.ErrMovePending},
	{guarding.ErrPendingNotFound, apiErrors.ErrPendingMoveNotFound},
	{guarding.ErrUnexpectedState, apiErrors.ErrPendingMoveState},
	{dealing.ErrTitleRequired, apiErrors.ErrMissingRequiredData},
	{dealing.ErrInvalidAmount, apiErrors.ErrInvalidFormat},
	{dealing.ErrInvalidStage, apiErrors.ErrInvalidFormat},
	{proposing.ErrTitleRequired, apiErrors.ErrMissingRequiredData},
	{proposing.ErrInvalidValue, apiErrors.ErrInvalidFormat},
	{tasking.ErrTitleRequired, apiErrors.ErrMissingRequiredData},
}

// errorCode traduz erros dos casos de uso para códigos da API
func errorCode(err error) string {
	var leadErr *leading.LeadError
	if errors.As(err, &leadErr) && leadErr.Code != "" {
		return leadErr.Code
	}

	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			return s.code
		}
	}

	return apiErrors.ErrInternalServer
}

func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error, details any) {
	code := errorCode(err)
	entry := log.ForContext(r.Context()).WithError(err)
	if code == apiErrors.ErrInternalServer {
		entry.Error("Erro inesperado")
		apiErrors.WriteError(w, code, "Erro interno do servidor", nil)
		return
	}

	entry.Debug("Requisição rejeitada")
	apiErrors.WriteError(w, code, err.Error(), details)
}
