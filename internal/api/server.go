package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/internal/api/handler"
	"github.com/vfg2006/crm-pipeline-api/internal/api/handler/router"
	"github.com/vfg2006/crm-pipeline-api/internal/config"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/authenticating"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/reporting"
	"github.com/vfg2006/crm-pipeline-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
	cleanups   *[]func(context.Context) error
}

func New(
	config *config.Config,
	boards handler.BoardServices,
	statsService reporting.StatsService,
	authenticator authenticating.Authenticator,
	stageSyncService handler.StageSyncRunner,
) (*Server, error) {
	// sem autenticação não há perfil para checar
	var syncGuards []func(http.Handler) http.Handler
	if config.Auth.Enabled {
		syncGuards = append(syncGuards, middleware.AdminOnly())
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Boards(boards)...),
		router.WithRoutes(handler.Leads(boards.Leads)...),
		router.WithRoutes(handler.Stats(statsService)...),
		router.WithRoutes(handler.Proposals(boards.Proposals)...),
		router.WithRoutes(handler.StageSync(stageSyncService, syncGuards...)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.CorsAllowedOrigins),
		middleware.AuthMiddleware(authenticator, config.Auth.Enabled),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
		cleanups: &[]func(context.Context) error{},
	}

	return srv, nil
}

// OnShutdown registra uma limpeza executada depois que o HTTP parou de
// aceitar requisições, na ordem de registro
func (s Server) OnShutdown(fn func(ctx context.Context) error) {
	*s.cleanups = append(*s.cleanups, fn)
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}
	logrus.Info("Servidor HTTP desligado com sucesso")

	var errs []error
	for _, cleanup := range *s.cleanups {
		if err := cleanup(ctx); err != nil {
			logrus.WithError(err).Warn("Falha em limpeza durante o desligamento")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
