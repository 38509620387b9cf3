// Package cache implementa o cache com prazo de validade usado na frente dos
// webhooks externos. Entradas expiradas não são removidas: elas servem de
// valor de reserva quando uma atualização falha.
package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMiss indica que o backend não possui entrada para a chave
var ErrMiss = errors.New("cache: miss")

// Chaves fixas por tipo de recurso
const (
	KeyLeads = "leads"
	KeyStats = "stats"
)

// Backend armazena entradas serializadas
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
}

// Entry é o formato persistido de cada recurso
type Entry[T any] struct {
	Data      T         `json:"data"`
	Expiry    time.Time `json:"expiry"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// FetchFunc busca o valor atual na origem remota
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Result é o retorno de Fetcher.Get
type Result[T any] struct {
	Value     T
	HasValue  bool
	FromCache bool
	Stale     bool
	Loading   bool
	Err       error
	FetchedAt time.Time
	Expiry    time.Time
}

// Fetcher combina uma função de busca com uma entrada de cache
type Fetcher[T any] struct {
	key     string
	ttl     time.Duration
	fetch   FetchFunc[T]
	backend Backend
	now     func() time.Time

	seq      atomic.Uint64
	inflight atomic.Int32

	mu      sync.Mutex
	written uint64
}

// NewFetcher cria um Fetcher para a chave informada
func NewFetcher[T any](backend Backend, key string, ttl time.Duration, fetch FetchFunc[T]) *Fetcher[T] {
	return &Fetcher[T]{
		key:     key,
		ttl:     ttl,
		fetch:   fetch,
		backend: backend,
		now:     time.Now,
	}
}

// WithClock substitui o relógio usado para calcular a validade
func (f *Fetcher[T]) WithClock(now func() time.Time) *Fetcher[T] {
	f.now = now
	return f
}

// Loading informa se existe uma busca em andamento
func (f *Fetcher[T]) Loading() bool {
	return f.inflight.Load() > 0
}

// Get devolve o valor em cache enquanto válido. Com forceRefresh, ou com a
// entrada expirada, busca na origem; se a busca falhar, devolve o último valor
// conhecido (mesmo expirado) junto com o erro.
func (f *Fetcher[T]) Get(ctx context.Context, forceRefresh bool) Result[T] {
	cached, hasCached := f.load(ctx)
	if !forceRefresh && hasCached && f.now().Before(cached.Expiry) {
		return f.fromEntry(cached, nil)
	}

	seq := f.seq.Add(1)
	f.inflight.Add(1)
	data, err := f.fetch(ctx)
	f.inflight.Add(-1)

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"key":       f.key,
			"timestamp": f.now().Format(time.RFC3339),
			"error":     err.Error(),
		}).Error("Falha ao atualizar recurso remoto")

		if latest, ok := f.load(ctx); ok {
			res := f.fromEntry(latest, err)
			res.Stale = true
			return res
		}
		return Result[T]{Err: err, Loading: f.Loading()}
	}

	now := f.now()
	entry := Entry[T]{Data: data, Expiry: now.Add(f.ttl), FetchedAt: now}

	f.mu.Lock()
	if seq < f.written {
		f.mu.Unlock()
		logrus.WithField("key", f.key).Debug("Resposta superada por uma busca mais recente, descartando")
		if latest, ok := f.load(ctx); ok {
			return f.fromEntry(latest, nil)
		}
		return Result[T]{Value: data, HasValue: true, FetchedAt: now, Expiry: entry.Expiry}
	}
	f.written = seq
	f.store(ctx, entry)
	f.mu.Unlock()

	return Result[T]{
		Value:     data,
		HasValue:  true,
		Loading:   f.Loading(),
		FetchedAt: entry.FetchedAt,
		Expiry:    entry.Expiry,
	}
}

func (f *Fetcher[T]) fromEntry(e Entry[T], err error) Result[T] {
	return Result[T]{
		Value:     e.Data,
		HasValue:  true,
		FromCache: true,
		Loading:   f.Loading(),
		Err:       err,
		FetchedAt: e.FetchedAt,
		Expiry:    e.Expiry,
	}
}

func (f *Fetcher[T]) load(ctx context.Context) (Entry[T], bool) {
	var entry Entry[T]

	raw, err := f.backend.Get(ctx, f.key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			logrus.WithError(err).WithField("key", f.key).Warn("Erro ao ler entrada do cache")
		}
		return entry, false
	}

	if err := json.Unmarshal(raw, &entry); err != nil {
		logrus.WithError(err).WithField("key", f.key).Warn("Entrada de cache inválida, ignorando")
		return entry, false
	}

	return entry, true
}

func (f *Fetcher[T]) store(ctx context.Context, entry Entry[T]) {
	raw, err := json.Marshal(entry)
	if err != nil {
		logrus.WithError(err).WithField("key", f.key).Error("Erro ao serializar entrada do cache")
		return
	}

	if err := f.backend.Set(ctx, f.key, raw); err != nil {
		logrus.WithError(err).WithField("key", f.key).Error("Erro ao gravar entrada do cache")
	}
}
