package handler

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/dealing"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/guarding"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/leading"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/proposing"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/tasking"
	"github.com/vfg2006/crm-pipeline-api/pkg/apiErrors"
)

// BoardServices agrupa os serviços de cada quadro kanban
type BoardServices struct {
	Opportunities dealing.OpportunityService
	Leads         leading.LeadService
	Proposals     proposing.ProposalService
	Cards         tasking.TaskService
}

func (b BoardServices) mover(kind domain.BoardKind) (guarding.Mover, bool) {
	switch kind {
	case domain.BoardOpportunities:
		if b.Opportunities != nil {
			return b.Opportunities.Mover(), true
		}
	case domain.BoardLeads:
		if b.Leads != nil {
			return b.Leads.Mover(), true
		}
	case domain.BoardProposals:
		if b.Proposals != nil {
			return b.Proposals.Mover(), true
		}
	case domain.BoardCards:
		if b.Cards != nil {
			return b.Cards.Mover(), true
		}
	}
	return nil, false
}

// BoardResponse é a visão de um quadro com as movimentações em espera
type BoardResponse struct {
	Board   any                    `json:"board"`
	Pending []guarding.PendingMove `json:"pending"`
	Totals  map[string]float64     `json:"totals,omitempty"`
}

// MoveResponse é o resultado de uma etapa do fluxo de movimentação
type MoveResponse struct {
	guarding.Outcome
	Board any `json:"board"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func boardKind(r *http.Request) domain.BoardKind {
	return domain.BoardKind(httprouter.ParamsFromContext(r.Context()).ByName("board"))
}

func cardID(r *http.Request) string {
	return httprouter.ParamsFromContext(r.Context()).ByName("cardId")
}

func pendingID(r *http.Request) string {
	return httprouter.ParamsFromContext(r.Context()).ByName("pendingId")
}

func resolveMover(w http.ResponseWriter, r *http.Request, boards BoardServices) (guarding.Mover, bool) {
	kind := boardKind(r)
	mover, ok := boards.mover(kind)
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrBoardNotFound, "Quadro não encontrado", map[string]string{"board": string(kind)})
		return nil, false
	}
	return mover, true
}

func writeOutcome(w http.ResponseWriter, r *http.Request, mover guarding.Mover, outcome guarding.Outcome, err error) {
	if err != nil {
		writeUseCaseError(w, r, err, outcome)
		return
	}

	status := http.StatusOK
	if outcome.State == guarding.StateAwaitingConfirmation || outcome.State == guarding.StateAwaitingReason {
		status = http.StatusAccepted
	}

	writeJSON(w, status, MoveResponse{Outcome: outcome, Board: mover.View()})
}

// GetBoard retorna o quadro atual com as movimentações pendentes
func GetBoard(boards BoardServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetBoard")

		mover, ok := resolveMover(w, r, boards)
		if !ok {
			return
		}

		response := BoardResponse{
			Board:   mover.View(),
			Pending: mover.Pending(),
		}
		if mover.Kind() == domain.BoardOpportunities {
			response.Totals = boards.Opportunities.ColumnTotals()
		}

		writeJSON(w, http.StatusOK, response)
	})
}

// RequestMove recebe o evento de arrastar um card entre colunas
func RequestMove(boards BoardServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RequestMove")

		mover, ok := resolveMover(w, r, boards)
		if !ok {
			return
		}

		var request domain.MoveRequest
		if err := decodeBody(r, &request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
			return
		}
		if request.CardID == "" || request.SourceColumnID == "" || request.DestColumnID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "cardId, sourceColumnId e destColumnId são obrigatórios", nil)
			return
		}

		outcome, err := mover.Request(r.Context(), request)
		writeOutcome(w, r, mover, outcome, err)
	})
}

// SubmitMoveReason informa o motivo de uma movimentação em espera
func SubmitMoveReason(boards BoardServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - SubmitMoveReason")

		mover, ok := resolveMover(w, r, boards)
		if !ok {
			return
		}

		var request reasonRequest
		if err := decodeBody(r, &request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
			return
		}

		outcome, err := mover.SubmitReason(r.Context(), pendingID(r), strings.TrimSpace(request.Reason))
		writeOutcome(w, r, mover, outcome, err)
	})
}

// ConfirmMove confirma uma movimentação em espera
func ConfirmMove(boards BoardServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ConfirmMove")

		mover, ok := resolveMover(w, r, boards)
		if !ok {
			return
		}

		outcome, err := mover.Confirm(r.Context(), pendingID(r))
		writeOutcome(w, r, mover, outcome, err)
	})
}

// CancelMove descarta uma movimentação em espera sem alterar o quadro
func CancelMove(boards BoardServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CancelMove")

		mover, ok := resolveMover(w, r, boards)
		if !ok {
			return
		}

		outcome, err := mover.Cancel(r.Context(), pendingID(r))
		writeOutcome(w, r, mover, outcome, err)
	})
}

// CreateCard cria um card na primeira coluna do quadro; o corpo depende do quadro
func CreateCard(boards BoardServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateCard")

		if _, ok := resolveMover(w, r, boards); !ok {
			return
		}

		var (
			created any
			err     error
		)

		switch boardKind(r) {
		case domain.BoardOpportunities:
			var request domain.CreateOpportunityRequest
			if err := decodeBody(r, &request); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
				return
			}
			created, err = boards.Opportunities.CreateOpportunity(r.Context(), &request)
		case domain.BoardLeads:
			var request domain.CreateLeadRequest
			if err := decodeBody(r, &request); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
				return
			}
			created, err = boards.Leads.CreateLead(r.Context(), &request)
		case domain.BoardProposals:
			var request domain.CreateProposalRequest
			if err := decodeBody(r, &request); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
				return
			}
			created, err = boards.Proposals.CreateProposal(r.Context(), &request)
		case domain.BoardCards:
			var request domain.CreateTaskCardRequest
			if err := decodeBody(r, &request); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
				return
			}
			created, err = boards.Cards.CreateCard(r.Context(), &request)
		}

		if err != nil {
			writeUseCaseError(w, r, err, nil)
			return
		}

		writeJSON(w, http.StatusCreated, created)
	})
}

// UpdateCard edita os campos de um card sem mudar sua coluna. Só o quadro de
// oportunidades aceita edição.
func UpdateCard(boards BoardServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateCard")

		if _, ok := resolveMover(w, r, boards); !ok {
			return
		}

		if boardKind(r) != domain.BoardOpportunities {
			apiErrors.WriteError(w, apiErrors.ErrMethodNotAllowed, "Quadro não aceita edição de cards", map[string]string{"board": string(boardKind(r))})
			return
		}

		var request domain.UpdateOpportunityRequest
		if err := decodeBody(r, &request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
			return
		}

		updated, err := boards.Opportunities.UpdateOpportunity(r.Context(), cardID(r), &request)
		if err != nil {
			writeUseCaseError(w, r, err, map[string]string{"cardId": cardID(r)})
			return
		}

		writeJSON(w, http.StatusOK, updated)
	})
}
