package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-pipeline-api/infrastructure/integrator/webhook"
	"github.com/vfg2006/crm-pipeline-api/infrastructure/integrator/webhook/webhookclient"
	"github.com/vfg2006/crm-pipeline-api/internal/api"
	"github.com/vfg2006/crm-pipeline-api/internal/api/handler"
	"github.com/vfg2006/crm-pipeline-api/internal/config"
	"github.com/vfg2006/crm-pipeline-api/internal/scheduler"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/authenticating"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/dealing"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/leading"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/proposing"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/reporting"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/tasking"
	"github.com/vfg2006/crm-pipeline-api/pkg/cache"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, closeBackend := cacheBackend(ctx, cfg)

	authenticator := authenticating.NewService(cfg)

	webhookClient := webhookclient.NewClient(cfg)
	webhookIntegrator := webhook.New(cfg, webhookClient)

	stageSyncService := scheduler.NewStageSyncService(webhookIntegrator, cfg)

	leadService, err := leading.NewService(backend, cfg.Cache.LeadsTTL, webhookIntegrator, stageSyncService)
	if err != nil {
		logrus.Fatal(err)
	}

	opportunityService, err := dealing.NewService(webhookIntegrator)
	if err != nil {
		logrus.Fatal(err)
	}

	proposalService, err := proposing.NewService(webhookIntegrator)
	if err != nil {
		logrus.Fatal(err)
	}

	taskService, err := tasking.NewService()
	if err != nil {
		logrus.Fatal(err)
	}

	statsService := reporting.NewService(backend, cfg.Cache.StatsTTL, webhookIntegrator)

	if err := stageSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de reenvio de etapas de leads")
	} else {
		logrus.Info("Agendador de reenvio de etapas de leads iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		handler.BoardServices{
			Opportunities: opportunityService,
			Leads:         leadService,
			Proposals:     proposalService,
			Cards:         taskService,
		},
		statsService,
		authenticator,
		stageSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	// última tentativa de entregar etapas pendentes antes de sair
	server.OnShutdown(func(ctx context.Context) error {
		stageSyncService.RetryPending(ctx)
		return nil
	})
	server.OnShutdown(closeBackend)

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// cacheBackend escolhe onde ficam as entradas do cache dos webhooks
func cacheBackend(ctx context.Context, cfg *config.Config) (cache.Backend, func(context.Context) error) {
	if cfg.Cache.Backend != config.CacheBackendRedis {
		logrus.Info("Cache em memória habilitado")
		return cache.NewMemoryBackend(), func(context.Context) error { return nil }
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
	}

	logrus.WithField("address", cfg.Redis.Addr).Info("Conexão com Redis estabelecida com sucesso")
	return cache.NewRedisBackend(client, 0), func(context.Context) error { return client.Close() }
}
