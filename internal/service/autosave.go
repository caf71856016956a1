package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Autosave — periodic state snapshots on a cron schedule
// ─────────────────────────────────────────────────────────────

// Autosave periodically snapshots the open project. Full replay is O(n)
// in history length, so warm snapshots keep cold starts and inspection
// cheap on long histories.
type Autosave struct {
	projects *ProjectService
	sched    *cron.Cron
}

// NewAutosave creates an Autosave bound to the project service.
func NewAutosave(projects *ProjectService) *Autosave {
	return &Autosave{projects: projects}
}

// Start schedules snapshots with a cron expression ("@every 2m" style
// descriptors work). Restarting replaces the previous schedule.
func (a *Autosave) Start(spec string) error {
	a.Stop()
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := a.projects.Snapshot(context.Background()); err != nil {
			if errors.Is(err, ErrNoOpenProject) {
				return
			}
			log.Printf("autosave: snapshot failed: %v", err)
			return
		}
		log.Printf("autosave: snapshot saved")
	})
	if err != nil {
		return fmt.Errorf("autosave: invalid schedule %q: %w", spec, err)
	}
	c.Start()
	a.sched = c
	log.Printf("autosave: scheduled %q", spec)
	return nil
}

// Stop halts the schedule.
func (a *Autosave) Stop() {
	if a.sched != nil {
		a.sched.Stop()
		a.sched = nil
	}
}
