package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/aokihara/unitrack/model"
	"github.com/aokihara/unitrack/utils/auth"
)

// CleanupExpiredTokens purges blacklist entries whose tokens have expired
// anyway and no longer need to be checked on every request.
func (m *CronManager) CleanupExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "cleanup_expired_tokens"

	blacklist := auth.NewBlacklistService(m.db)
	purged, err := blacklist.CleanupExpiredTokens(ctx)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to cleanup blacklist: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Purged %d expired blacklist entries", purged))
}

// CleanupOldJobLogs removes cron job logs older than the retention window.
func (m *CronManager) CleanupOldJobLogs() {
	jobName := "cleanup_old_job_logs"
	cutoff := time.Now().AddDate(0, 0, -30)

	result := m.db.
		Where("started_at < ? AND status <> ?", cutoff, "running").
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete old logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d job logs older than %s", result.RowsAffected, cutoff.Format("2006-01-02")))
}
