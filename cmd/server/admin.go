package main

import (
	"context"

	"trustlens/internal/scoring"
	"trustlens/internal/scoring/store"
	"trustlens/pkg/audit"
)

// configAdmin adapts the scoring store to the admin API and audits config
// lifecycle changes.
type configAdmin struct {
	store   store.Store
	auditor *audit.Publisher
}

func (a *configAdmin) PublishConfig(ctx context.Context, cfg *scoring.Config) error {
	if err := a.store.PublishConfig(ctx, cfg); err != nil {
		return err
	}
	a.emit(ctx, audit.EventConfigPublished, cfg.VersionKey)
	return nil
}

func (a *configAdmin) ListConfigs(ctx context.Context) ([]*scoring.Config, error) {
	return a.store.ListConfigs(ctx)
}

func (a *configAdmin) ActiveConfig(ctx context.Context) (*scoring.Config, error) {
	return a.store.ActiveConfig(ctx)
}

func (a *configAdmin) Activate(ctx context.Context, versionKey string) error {
	if err := a.store.Activate(ctx, versionKey); err != nil {
		return err
	}
	a.emit(ctx, audit.EventConfigActivated, versionKey)
	return nil
}

func (a *configAdmin) emit(ctx context.Context, action audit.AuditEvent, version string) {
	if a.auditor == nil {
		return
	}
	_ = a.auditor.Emit(ctx, audit.Event{Action: string(action), Decision: version})
}
