package handler

import (
	"net/http"

	"github.com/vfg2006/crm-pipeline-api/internal/api/handler/router"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/leading"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/proposing"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/reporting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Boards(boards BoardServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/boards/:board",
			Method:  http.MethodGet,
			Handler: GetBoard(boards),
		},
		{
			Path:    "/v1/boards/:board/moves",
			Method:  http.MethodPost,
			Handler: RequestMove(boards),
		},
		{
			Path:    "/v1/boards/:board/moves/:pendingId/reason",
			Method:  http.MethodPost,
			Handler: SubmitMoveReason(boards),
		},
		{
			Path:    "/v1/boards/:board/moves/:pendingId/confirm",
			Method:  http.MethodPost,
			Handler: ConfirmMove(boards),
		},
		{
			Path:    "/v1/boards/:board/moves/:pendingId",
			Method:  http.MethodDelete,
			Handler: CancelMove(boards),
		},
		{
			Path:    "/v1/boards/:board/cards",
			Method:  http.MethodPost,
			Handler: CreateCard(boards),
		},
		{
			Path:    "/v1/boards/:board/cards/:cardId",
			Method:  http.MethodPatch,
			Handler: UpdateCard(boards),
		},
	}
}

func Leads(service leading.LeadService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/leads",
			Method:  http.MethodGet,
			Handler: ListLeads(service),
		},
		{
			Path:    "/v1/leads",
			Method:  http.MethodPost,
			Handler: CreateLead(service),
		},
	}
}

func Stats(service reporting.StatsService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/stats",
			Method:  http.MethodGet,
			Handler: GetStats(service),
		},
	}
}

func Proposals(service proposing.ProposalService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/proposals/by-opportunity",
			Method:  http.MethodGet,
			Handler: ProposalsByOpportunity(service),
		},
	}
}

// StageSync recebe os middlewares de acesso de fora: com a autenticação
// desligada não há claims para checar o perfil.
func StageSync(service StageSyncRunner, guards ...func(http.Handler) http.Handler) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sync/stage/run",
			Method:      http.MethodPost,
			Handler:     RunStageSync(service),
			Middlewares: guards,
		},
		{
			Path:        "/v1/sync/stage/status",
			Method:      http.MethodGet,
			Handler:     StageSyncStatus(service),
			Middlewares: guards,
		},
	}
}
