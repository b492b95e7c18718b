package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName string `env:"APP_NAME" envDefault:"go-hrms"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	TZ      string `env:"APP_TIMEZONE" envDefault:"Asia/Kolkata"`

	HTTP     HTTPConfig
	DB       DBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Punch    PunchSourceConfig
	Overtime OvertimeConfig
	Cron     CronConfig
	Jobs     JobConfig
	Log      LogConfig

	JWTSecret string `env:"JWT_SECRET"`
}

type HTTPConfig struct {
	Port         string        `env:"PORT" envDefault:"3000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

type DBConfig struct {
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME" envDefault:"hrms"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxRetries int    `env:"DB_MAX_RETRIES" envDefault:"5"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
}

type KafkaConfig struct {
	Broker            string        `env:"KAFKA_BROKER"`
	NotificationTopic string        `env:"KAFKA_NOTIFICATION_TOPIC" envDefault:"hrms.notification.v1"`
	ConsumerGroup     string        `env:"KAFKA_CONSUMER_GROUP" envDefault:"go-hrms-notification"`
	OutboxPoll        time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`
}

type PunchSourceConfig struct {
	DSN     string `env:"PUNCH_SOURCE_DSN"`
	Table   string `env:"PUNCH_SOURCE_TABLE" envDefault:"Punchlogs"`
	JobName string `env:"PUNCH_SYNC_JOB" envDefault:"attendanceSync"`
}

type OvertimeConfig struct {
	BaseRate            string   `env:"OT_BASE_RATE" envDefault:"500"`
	EligibleDepartments []string `env:"OT_ELIGIBLE_DEPARTMENTS" envSeparator:"," envDefault:"Production,Testing,AMETL,Admin"`
}

// CronConfig holds the job schedules. Finalize and arrivals run after every successful morning
// sync; CRON_FINALIZE and CRON_ARRIVALS add an extra standalone run and are empty by default.
type CronConfig struct {
	SyncMorning   string `env:"CRON_SYNC_MORNING" envDefault:"30 9 * * *"`
	SyncAfternoon string `env:"CRON_SYNC_AFTERNOON" envDefault:"0 14 * * *"`
	Arrivals      string `env:"CRON_ARRIVALS"`
	Finalize      string `env:"CRON_FINALIZE"`
	OTSweep       string `env:"CRON_OT_SWEEP" envDefault:"30 0 * * *"`
	LeaveReset    string `env:"CRON_LEAVE_RESET" envDefault:"5 0 * * *"`
}

type JobConfig struct {
	MaxRetries     int           `env:"JOB_MAX_RETRIES" envDefault:"3"`
	RetryDelay     time.Duration `env:"JOB_RETRY_DELAY" envDefault:"5s"`
	AlertThreshold int           `env:"JOB_FAILURE_ALERT_THRESHOLD" envDefault:"3"`
	LockTTL        time.Duration `env:"JOB_LOCK_TTL" envDefault:"30m"`
	Parallelism    int           `env:"FINALIZE_PARALLELISM" envDefault:"8"`
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	for i, d := range cfg.Overtime.EligibleDepartments {
		cfg.Overtime.EligibleDepartments[i] = strings.TrimSpace(d)
	}
	return cfg, nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.TZ, err)
	}
	return loc, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
