package config_test

import (
	"testing"
	"time"

	"go-hrms/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, "Asia/Kolkata", cfg.TZ)
		assert.Equal(t, "500", cfg.Overtime.BaseRate)
		assert.Equal(t, []string{"Production", "Testing", "AMETL", "Admin"}, cfg.Overtime.EligibleDepartments)
		assert.Equal(t, 3, cfg.Jobs.MaxRetries)
		assert.Equal(t, 5*time.Second, cfg.Jobs.RetryDelay)
		assert.Equal(t, "30 9 * * *", cfg.Cron.SyncMorning)
		assert.Empty(t, cfg.Cron.Finalize, "finalize follows the morning sync")
		assert.Empty(t, cfg.Cron.Arrivals, "arrivals follow the morning sync")
		assert.Equal(t, "attendanceSync", cfg.Punch.JobName)
		assert.Equal(t, "Punchlogs", cfg.Punch.Table)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("OT_ELIGIBLE_DEPARTMENTS", "Production, Store")
		t.Setenv("JOB_MAX_RETRIES", "5")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, []string{"Production", "Store"}, cfg.Overtime.EligibleDepartments)
		assert.Equal(t, 5, cfg.Jobs.MaxRetries)
	})

	t.Run("invalid timezone", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "Mars/Olympus")

		_, err := config.Load()

		assert.Error(t, err)
	})
}
