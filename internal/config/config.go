package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	Webhook   Webhook   `mapstructure:",squash"`
	Cache     Cache     `mapstructure:",squash"`
	Redis     Redis     `mapstructure:",squash"`
	StageSync StageSync `mapstructure:",squash"`
	SecretKey string    `mapstructure:"secret_key"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host               string   `mapstructure:"host"`
	Port               string   `mapstructure:"port"`
	CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Auth struct {
	Enabled bool `mapstructure:"auth_enabled"`
}

// Webhook agrupa os endpoints externos que alimentam os quadros
type Webhook struct {
	LeadsURL         string        `mapstructure:"webhook_leads_url"`
	StatsURL         string        `mapstructure:"webhook_stats_url"`
	OpportunitiesURL string        `mapstructure:"webhook_opportunities_url"`
	LeadUpdateURL    string        `mapstructure:"webhook_lead_update_url"`
	Timeout          time.Duration `mapstructure:"webhook_timeout"`
	Source           string        `mapstructure:"webhook_source"`
}

type Cache struct {
	Backend  string        `mapstructure:"cache_backend"`
	LeadsTTL time.Duration `mapstructure:"leads_cache_ttl"`
	StatsTTL time.Duration `mapstructure:"stats_cache_ttl"`
}

type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type StageSync struct {
	CronSchedule string `mapstructure:"stage_sync_cron"`
	MaxAttempts  int    `mapstructure:"stage_sync_max_attempts"`
	Enabled      bool   `mapstructure:"stage_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_ENABLED", true)

	viper.SetDefault("WEBHOOK_LEADS_URL", "")
	viper.SetDefault("WEBHOOK_STATS_URL", "")
	viper.SetDefault("WEBHOOK_OPPORTUNITIES_URL", "")
	viper.SetDefault("WEBHOOK_LEAD_UPDATE_URL", "")
	viper.SetDefault("WEBHOOK_TIMEOUT", "15s")
	viper.SetDefault("WEBHOOK_SOURCE", "crm-pipeline-api")

	viper.SetDefault("CACHE_BACKEND", CacheBackendMemory)
	viper.SetDefault("LEADS_CACHE_TTL", "300s") // 5 minutos
	viper.SetDefault("STATS_CACHE_TTL", "600s") // 10 minutos

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	// Reenvio das mudanças de etapa de leads que falharam
	viper.SetDefault("STAGE_SYNC_CRON", "*/30 * * * * *") // A cada 30 segundos
	viper.SetDefault("STAGE_SYNC_MAX_ATTEMPTS", 10)
	viper.SetDefault("STAGE_SYNC_ENABLED", true)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Cache.Backend = strings.ToLower(strings.TrimSpace(config.Cache.Backend))
	if config.Cache.Backend != CacheBackendRedis {
		config.Cache.Backend = CacheBackendMemory
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
