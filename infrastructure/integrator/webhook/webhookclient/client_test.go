package webhookclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	webhookdomain "github.com/vfg2006/crm-pipeline-api/infrastructure/integrator/webhook/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/config"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
)

func newTestClient(url string) Client {
	return NewClient(&config.Config{
		Webhook: config.Webhook{
			LeadsURL:         url + "/leads",
			StatsURL:         url + "/stats",
			OpportunitiesURL: url + "/events",
			LeadUpdateURL:    url + "/lead-update",
			Timeout:          time.Second,
		},
	})
}

func TestGetLeads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/leads", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Novo Lead": [
				{"Id": 42, "name": "Ana", "phone": "11999990000", "ddi": "55", "stage": "Novo Lead", "external_id": "ext-1"}
			],
			"Desqualificado": [
				{"Id": "b7", "name": "Bruno", "motivo_desqualificacao": "Sem orçamento", "registros_lead": [{"id": 1, "tipo": "ligacao", "descricao": "Não atendeu"}]}
			]
		}`))
	}))
	defer server.Close()

	leads, err := newTestClient(server.URL).GetLeads(context.Background())
	require.NoError(t, err)

	require.Len(t, leads["Novo Lead"], 1)
	ana := leads["Novo Lead"][0]
	assert.Equal(t, webhookdomain.FlexibleID("42"), ana.ID)
	assert.Equal(t, webhookdomain.FlexibleID("ext-1"), ana.ExternalID)
	assert.Equal(t, "55", ana.DDI)

	require.Len(t, leads["Desqualificado"], 1)
	bruno := leads["Desqualificado"][0]
	assert.Equal(t, webhookdomain.FlexibleID("b7"), bruno.ID)
	assert.Equal(t, "Sem orçamento", bruno.DisqualificationReason)
	require.Len(t, bruno.Records, 1)
	assert.Equal(t, webhookdomain.FlexibleID("1"), bruno.Records[0].ID)
}

func TestGetStats_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	stats, err := newTestClient(server.URL).GetStats(context.Background())

	assert.Nil(t, stats)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream down", statusErr.Body)
}

func TestUpdateLeadStage_SendsIdempotencyKey(t *testing.T) {
	var gotKey, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotKey = r.Header.Get(IdempotencyKeyHeader)
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := newTestClient(server.URL).UpdateLeadStage(context.Background(), webhookdomain.LeadStageUpdate{
		LeadID: "l1",
		Stage:  "Qualificado",
	})
	require.NoError(t, err)

	assert.Equal(t, "l1:Qualificado", gotKey)
	assert.JSONEq(t, `{"leadId":"l1","stage":"Qualificado"}`, gotBody)
}

func TestSendEvent(t *testing.T) {
	var got domain.Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	event := domain.Event{
		Event:     domain.EventOpportunityCreated,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:    "crm",
		Data:      map[string]any{"id": "o1"},
	}

	require.NoError(t, newTestClient(server.URL).SendEvent(context.Background(), event))
	assert.Equal(t, domain.EventOpportunityCreated, got.Event)
	assert.True(t, event.Timestamp.Equal(got.Timestamp))
}

func TestNotConfigured(t *testing.T) {
	client := NewClient(&config.Config{})

	_, err := client.GetLeads(context.Background())

	assert.ErrorIs(t, err, ErrNotConfigured)
}
