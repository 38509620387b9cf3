// Package guarding decide se uma movimentação de card pode ser aplicada
// imediatamente ou se precisa de confirmação/motivo antes de chegar ao Store.
package guarding

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/pipeline"
	"github.com/vfg2006/crm-pipeline-api/pkg/utils"
)

type State string

const (
	StateIdle                 State = "idle"
	StateRequested            State = "requested"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateAwaitingReason       State = "awaiting_reason"
	StateCommitted            State = "committed"
	StateCancelled            State = "cancelled"
)

// Policy define quando uma movimentação é protegida
type Policy int

const (
	// GuardTerminalNegative exige motivo apenas para etapas de perda/desqualificação
	GuardTerminalNegative Policy = iota
	// ConfirmAll exige confirmação explícita para qualquer mudança de etapa
	ConfirmAll
)

const defaultPendingTTL = 15 * time.Minute

// PendingMove é uma movimentação aguardando ação do usuário
type PendingMove struct {
	ID        string             `json:"id"`
	Request   domain.MoveRequest `json:"request"`
	From      domain.Stage       `json:"from"`
	To        domain.Stage       `json:"to"`
	State     State              `json:"state"`
	Prompt    string             `json:"prompt"`
	CreatedAt time.Time          `json:"createdAt"`
}

// Outcome é o resultado de cada passo da máquina de estados
type Outcome struct {
	State   State        `json:"state"`
	Pending *PendingMove `json:"pending,omitempty"`
	Version uint64       `json:"version"`
}

// CommitHook roda depois que o Store aplicou a movimentação. Falhas devem ser
// tratadas pelo próprio hook: a movimentação local nunca é desfeita.
type CommitHook[C pipeline.Card] func(ctx context.Context, card C, from, to domain.Stage)

// Mover é a visão sem tipo genérico usada pela camada HTTP
type Mover interface {
	Kind() domain.BoardKind
	View() any
	Pending() []PendingMove
	Request(ctx context.Context, req domain.MoveRequest) (Outcome, error)
	SubmitReason(ctx context.Context, pendingID, reason string) (Outcome, error)
	Confirm(ctx context.Context, pendingID string) (Outcome, error)
	Cancel(ctx context.Context, pendingID string) (Outcome, error)
}

type Controller[C pipeline.Card] struct {
	store       *pipeline.Store[C]
	policy      Policy
	hooks       []CommitHook[C]
	inlineHooks []CommitHook[C]
	dispatch    func(func())
	newID       func() (string, error)
	now         func() time.Time
	pendingTTL  time.Duration

	mu      sync.Mutex
	pending map[string]*PendingMove
	byCard  map[string]string
}

type Option[C pipeline.Card] func(*Controller[C])

// WithHook registra um hook pós-commit
func WithHook[C pipeline.Card](hook CommitHook[C]) Option[C] {
	return func(c *Controller[C]) { c.hooks = append(c.hooks, hook) }
}

// WithInlineHook registra um hook que roda antes do Request/Confirm
// retornar, sempre na goroutine da requisição. Deve ser rápido e não
// pode chamar o Controller.
func WithInlineHook[C pipeline.Card](hook CommitHook[C]) Option[C] {
	return func(c *Controller[C]) { c.inlineHooks = append(c.inlineHooks, hook) }
}

// WithSyncHooks executa os hooks na goroutine da requisição
func WithSyncHooks[C pipeline.Card]() Option[C] {
	return func(c *Controller[C]) { c.dispatch = func(f func()) { f() } }
}

func WithClock[C pipeline.Card](now func() time.Time) Option[C] {
	return func(c *Controller[C]) { c.now = now }
}

func WithPendingTTL[C pipeline.Card](ttl time.Duration) Option[C] {
	return func(c *Controller[C]) { c.pendingTTL = ttl }
}

func NewController[C pipeline.Card](store *pipeline.Store[C], policy Policy, opts ...Option[C]) *Controller[C] {
	c := &Controller[C]{
		store:      store,
		policy:     policy,
		dispatch:   func(f func()) { go f() },
		newID:      utils.GenerateID,
		now:        time.Now,
		pendingTTL: defaultPendingTTL,
		pending:    make(map[string]*PendingMove),
		byCard:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller[C]) Kind() domain.BoardKind { return c.store.Snapshot().Kind }

func (c *Controller[C]) View() any { return c.store.Snapshot() }

// Store devolve o Store controlado
func (c *Controller[C]) Store() *pipeline.Store[C] { return c.store }

// Pending lista as movimentações aguardando ação
func (c *Controller[C]) Pending() []PendingMove {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpired()
	out := make([]PendingMove, 0, len(c.pending))
	for _, p := range c.pending {
		out = append(out, *p)
	}
	return out
}

// Request classifica a movimentação: aplica direto, ou abre uma pendência
// aguardando confirmação ou motivo.
func (c *Controller[C]) Request(ctx context.Context, req domain.MoveRequest) (Outcome, error) {
	from, err := c.store.ResolveColumn(req.SourceColumnID)
	if err != nil {
		return Outcome{State: StateIdle}, err
	}
	to, err := c.store.ResolveColumn(req.DestColumnID)
	if err != nil {
		return Outcome{State: StateIdle}, err
	}
	req.SourceColumnID, req.DestColumnID = from.ID, to.ID
	req.Reason = strings.TrimSpace(req.Reason)

	if from.ID == to.ID {
		return Outcome{State: StateIdle, Version: c.store.Snapshot().Version}, pipeline.ErrSameColumn
	}

	c.mu.Lock()
	c.purgeExpired()

	board := c.store.Snapshot()
	col, _ := board.Column(from.ID)
	if !containsCard(col.Cards, req.CardID) {
		c.mu.Unlock()
		return Outcome{State: StateIdle, Version: board.Version}, pipeline.ErrCardNotFound
	}
	if _, busy := c.byCard[req.CardID]; busy {
		c.mu.Unlock()
		return Outcome{State: StateIdle, Version: board.Version}, ErrMovePending
	}

	next := c.classify(req, to)
	if next == StateCommitted {
		outcome, card, err := c.commitLocked(req)
		c.mu.Unlock()
		if err != nil {
			return outcome, err
		}
		c.runHooks(ctx, card, from, to)
		return outcome, nil
	}

	id, err := c.newID()
	if err != nil {
		c.mu.Unlock()
		return Outcome{State: StateIdle}, fmt.Errorf("gerar id da movimentação pendente: %w", err)
	}

	p := &PendingMove{
		ID:        id,
		Request:   req,
		From:      from,
		To:        to,
		State:     next,
		Prompt:    fmt.Sprintf("Mover de %s para %s", from.Title, to.Title),
		CreatedAt: c.now(),
	}
	c.pending[id] = p
	c.byCard[req.CardID] = id
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"board":      board.Kind,
		"card_id":    req.CardID,
		"pending_id": id,
		"state":      next,
	}).Info("Movimentação aguardando ação do usuário")

	cp := *p
	return Outcome{State: next, Pending: &cp, Version: board.Version}, nil
}

// SubmitReason informa o motivo de uma movimentação para etapa terminal
// negativa. Motivo vazio mantém a pendência.
func (c *Controller[C]) SubmitReason(ctx context.Context, pendingID, reason string) (Outcome, error) {
	reason = strings.TrimSpace(reason)

	c.mu.Lock()
	p, err := c.lookupLocked(pendingID, StateAwaitingReason)
	if err != nil {
		c.mu.Unlock()
		return Outcome{State: StateIdle}, err
	}
	if reason == "" {
		cp := *p
		c.mu.Unlock()
		return Outcome{State: StateAwaitingReason, Pending: &cp, Version: c.store.Snapshot().Version}, pipeline.ErrReasonRequired
	}

	req := p.Request
	req.Reason = reason
	return c.finishLocked(ctx, p, req)
}

// Confirm aplica uma movimentação aguardando confirmação
func (c *Controller[C]) Confirm(ctx context.Context, pendingID string) (Outcome, error) {
	c.mu.Lock()
	p, err := c.lookupLocked(pendingID, StateAwaitingConfirmation)
	if err != nil {
		c.mu.Unlock()
		return Outcome{State: StateIdle}, err
	}
	return c.finishLocked(ctx, p, p.Request)
}

// Cancel descarta a pendência sem tocar no Store
func (c *Controller[C]) Cancel(_ context.Context, pendingID string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[pendingID]
	if !ok {
		return Outcome{State: StateIdle}, ErrPendingNotFound
	}
	c.removeLocked(p)

	logrus.WithFields(logrus.Fields{
		"card_id":    p.Request.CardID,
		"pending_id": p.ID,
	}).Info("Movimentação cancelada")

	cp := *p
	cp.State = StateCancelled
	return Outcome{State: StateCancelled, Pending: &cp, Version: c.store.Snapshot().Version}, nil
}

func (c *Controller[C]) classify(req domain.MoveRequest, to domain.Stage) State {
	if to.IsTerminalNegative() && req.Reason == "" {
		return StateAwaitingReason
	}
	if c.policy == ConfirmAll {
		return StateAwaitingConfirmation
	}
	return StateCommitted
}

// finishLocked deve ser chamado com c.mu travado; libera a trava
func (c *Controller[C]) finishLocked(ctx context.Context, p *PendingMove, req domain.MoveRequest) (Outcome, error) {
	c.removeLocked(p)
	outcome, card, err := c.commitLocked(req)
	c.mu.Unlock()

	if err != nil {
		outcome.State = StateCancelled
		return outcome, err
	}

	c.runHooks(ctx, card, p.From, p.To)
	return outcome, nil
}

func (c *Controller[C]) commitLocked(req domain.MoveRequest) (Outcome, C, error) {
	var zero C

	board, err := c.store.Move(req)
	if err != nil {
		return Outcome{State: StateIdle, Version: board.Version}, zero, err
	}

	_, card, _ := board.Find(req.CardID)

	logrus.WithFields(logrus.Fields{
		"board":   board.Kind,
		"card_id": req.CardID,
		"from":    req.SourceColumnID,
		"to":      req.DestColumnID,
	}).Info("Movimentação aplicada")

	return Outcome{State: StateCommitted, Version: board.Version}, card, nil
}

func (c *Controller[C]) runHooks(ctx context.Context, card C, from, to domain.Stage) {
	for _, hook := range c.inlineHooks {
		hook(ctx, card, from, to)
	}

	if len(c.hooks) == 0 {
		return
	}

	hookCtx := context.WithoutCancel(ctx)
	for _, hook := range c.hooks {
		hook := hook
		c.dispatch(func() { hook(hookCtx, card, from, to) })
	}
}

func (c *Controller[C]) lookupLocked(pendingID string, want State) (*PendingMove, error) {
	c.purgeExpired()

	p, ok := c.pending[pendingID]
	if !ok {
		return nil, ErrPendingNotFound
	}
	if p.State != want {
		return nil, ErrUnexpectedState
	}
	return p, nil
}

func (c *Controller[C]) removeLocked(p *PendingMove) {
	delete(c.pending, p.ID)
	delete(c.byCard, p.Request.CardID)
}

func (c *Controller[C]) purgeExpired() {
	if c.pendingTTL <= 0 {
		return
	}
	limit := c.now().Add(-c.pendingTTL)
	for _, p := range c.pending {
		if p.CreatedAt.Before(limit) {
			logrus.WithField("pending_id", p.ID).Debug("Movimentação pendente expirada")
			c.removeLocked(p)
		}
	}
}

func containsCard[C pipeline.Card](cards []C, id string) bool {
	for _, card := range cards {
		if card.CardID() == id {
			return true
		}
	}
	return false
}
