package session

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultRetention is how long an idle session survives before the sweep
// removes it.
const DefaultRetention = 30 * 24 * time.Hour

// DefaultCleanupSchedule runs the sweep hourly.
const DefaultCleanupSchedule = "0 * * * *"

// Cleanup periodically deletes sessions that have been idle past the
// retention window.
type Cleanup struct {
	manager   *Manager
	retention time.Duration
	schedule  string
	cron      *cron.Cron
}

// NewCleanup builds a sweep over the manager's sessions. Zero values fall
// back to the defaults.
func NewCleanup(manager *Manager, retention time.Duration, schedule string) *Cleanup {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}
	return &Cleanup{
		manager:   manager,
		retention: retention,
		schedule:  schedule,
	}
}

// Start schedules the sweep and runs one pass immediately so a restart
// does not wait an hour to reclaim stale sessions.
func (c *Cleanup) Start() error {
	c.cron = cron.New()
	if _, err := c.cron.AddFunc(c.schedule, c.Sweep); err != nil {
		return err
	}
	c.cron.Start()
	go c.Sweep()

	log.Info().
		Str("schedule", c.schedule).
		Dur("retention", c.retention).
		Msg("Session cleanup started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (c *Cleanup) Stop() {
	if c.cron == nil {
		return
	}
	<-c.cron.Stop().Done()
	log.Info().Msg("Session cleanup stopped")
}

// Sweep deletes every session idle longer than the retention window.
func (c *Cleanup) Sweep() {
	keys, err := c.manager.ListSessions()
	if err != nil {
		log.Warn().Err(err).Msg("Session sweep failed to list sessions")
		return
	}

	cutoff := time.Now().Add(-c.retention)
	removed := 0
	for _, key := range keys {
		last, err := c.manager.LastActivity(key)
		if err != nil {
			log.Warn().Str("session_key", key).Err(err).Msg("Session sweep failed to stat session")
			continue
		}
		if last.After(cutoff) {
			continue
		}
		if err := c.manager.DeleteSession(key); err != nil {
			log.Warn().Str("session_key", key).Err(err).Msg("Session sweep failed to delete session")
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Session sweep removed idle sessions")
	}
}
