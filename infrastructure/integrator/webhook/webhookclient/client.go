package webhookclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	webhookdomain "github.com/vfg2006/crm-pipeline-api/infrastructure/integrator/webhook/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/config"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10

	IdempotencyKeyHeader = "Idempotency-Key"
)

var ErrNotConfigured = errors.New("webhook url not configured")

// StatusError é devolvido quando o webhook responde fora da faixa 2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook respondeu com status %d: %s", e.StatusCode, e.Body)
}

type Client interface {
	GetLeads(ctx context.Context) (webhookdomain.LeadsByStage, error)
	GetStats(ctx context.Context) (*webhookdomain.Stats, error)
	SendEvent(ctx context.Context, event domain.Event) error
	UpdateLeadStage(ctx context.Context, update webhookdomain.LeadStageUpdate) error
}

type WebhookClient struct {
	httpClient *http.Client
	config     config.Webhook
}

func NewClient(cfg *config.Config) Client {
	timeout := cfg.Webhook.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &WebhookClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg.Webhook,
	}
}

func (c *WebhookClient) GetLeads(ctx context.Context) (webhookdomain.LeadsByStage, error) {
	var response webhookdomain.LeadsByStage
	if err := c.do(ctx, http.MethodGet, c.config.LeadsURL, nil, nil, &response); err != nil {
		return nil, errors.Wrap(err, "buscar leads")
	}
	if response == nil {
		response = webhookdomain.LeadsByStage{}
	}
	return response, nil
}

func (c *WebhookClient) GetStats(ctx context.Context) (*webhookdomain.Stats, error) {
	var response webhookdomain.Stats
	if err := c.do(ctx, http.MethodGet, c.config.StatsURL, nil, nil, &response); err != nil {
		return nil, errors.Wrap(err, "buscar estatísticas")
	}
	return &response, nil
}

func (c *WebhookClient) SendEvent(ctx context.Context, event domain.Event) error {
	if err := c.do(ctx, http.MethodPost, c.config.OpportunitiesURL, event, nil, nil); err != nil {
		return errors.Wrapf(err, "enviar evento %s", event.Event)
	}
	return nil
}

func (c *WebhookClient) UpdateLeadStage(ctx context.Context, update webhookdomain.LeadStageUpdate) error {
	headers := map[string]string{IdempotencyKeyHeader: update.IdempotencyKey()}
	if err := c.do(ctx, http.MethodPost, c.config.LeadUpdateURL, update, headers, nil); err != nil {
		return errors.Wrapf(err, "atualizar etapa do lead %s", update.LeadID)
	}
	return nil
}

func (c *WebhookClient) do(ctx context.Context, method, url string, payload any, headers map[string]string, out any) error {
	if url == "" {
		return ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "erro ao serializar o corpo")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.Wrap(err, "erro ao criar a requisição")
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "erro ao executar a requisição")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "erro ao decodificar a resposta")
	}

	return nil
}
