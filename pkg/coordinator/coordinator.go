package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/cuemby/printplan/pkg/engine"
	"github.com/cuemby/printplan/pkg/log"
	"github.com/cuemby/printplan/pkg/mirror"
	"github.com/cuemby/printplan/pkg/planninglog"
	"github.com/cuemby/printplan/pkg/recalculator"
	"github.com/cuemby/printplan/pkg/store"
	"github.com/cuemby/printplan/pkg/types"
	"github.com/cuemby/printplan/pkg/validate"
	"github.com/rs/zerolog"
)

// Config holds the dependencies and options needed to build a Coordinator.
type Config struct {
	// DataDir is the path of the BoltDB database file, created if absent.
	// Ignored if Store is set.
	DataDir string
	Store   store.Store

	// MirrorBaseURL and MirrorToken configure the default HTTP remote
	// mirror. Leave MirrorBaseURL empty to run local-only (no remote sync).
	MirrorBaseURL string
	MirrorToken   string
	Mirror        mirror.Mirror

	// Broker, if set, receives sync-cycles-skipped/complete notifications.
	// A nil Broker means the coordinator runs without one.
	Broker *planninglog.Broker
}

// Coordinator is the module's public façade.
type Coordinator struct {
	store        store.Store
	engine       *engine.Engine
	recalculator *recalculator.Recalculator
	broker       *planninglog.Broker
	logger       zerolog.Logger

	// now is the coordinator's clock seam. Everything below it (engine,
	// recalculator) takes Now as an injected parameter; the coordinator is
	// the one place allowed to read the system clock, since it is the
	// outermost edge talking to callers.
	now func() time.Time
}

// New builds a Coordinator from cfg, opening a BoltDB store at cfg.DataDir
// if cfg.Store is nil.
func New(cfg Config) (*Coordinator, error) {
	st := cfg.Store
	if st == nil {
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("coordinator: DataDir or Store is required")
		}
		bolt, err := store.NewBoltStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("coordinator: open store: %w", err)
		}
		st = bolt
	}

	mir := cfg.Mirror
	if mir == nil && cfg.MirrorBaseURL != "" {
		mir = mirror.NewHTTPMirror(cfg.MirrorBaseURL, cfg.MirrorToken, nil)
	}

	eng := engine.New()
	rec := recalculator.New(st, eng, mir, cfg.Broker)

	return &Coordinator{
		store:        st,
		engine:       eng,
		recalculator: rec,
		broker:       cfg.Broker,
		logger:       log.WithComponent("coordinator"),
		now:          time.Now,
	}, nil
}

// Close releases the underlying store.
func (c *Coordinator) Close() error {
	return c.store.Close()
}

// GeneratePlan runs one replanning pass with an explicit scope and
// lock-in-progress flag. It is the low-level entry point recalculatePlan
// and runReplanNow both build on.
func (c *Coordinator) GeneratePlan(ctx context.Context, scope recalculator.Scope, lockInProgress bool, reason string) (*recalculator.Result, error) {
	return c.recalculator.Recalculate(ctx, scope, lockInProgress, reason, c.now())
}

// RecalculatePlan is generatePlan's named alias per the external interface;
// scope and lockInProgress behave identically in both.
func (c *Coordinator) RecalculatePlan(ctx context.Context, scope recalculator.Scope, lockInProgress bool, reason string) (*recalculator.Result, error) {
	return c.GeneratePlan(ctx, scope, lockInProgress, reason)
}

// RunReplanNow is the synchronous convenience wrapper: recalculate from now,
// without locking in-progress cycles beyond their own immovability.
func (c *Coordinator) RunReplanNow(ctx context.Context, reason string) (*recalculator.Result, error) {
	return c.GeneratePlan(ctx, recalculator.ScopeFromNow, false, reason)
}

// ValidateExistingPlan runs the integrity checks against the persisted plan.
func (c *Coordinator) ValidateExistingPlan() (validate.Result, error) {
	cycles, err := c.store.GetPlannedCycles()
	if err != nil {
		return validate.Result{}, fmt.Errorf("coordinator: load planned cycles: %w", err)
	}
	projects, err := c.store.ListProjects()
	if err != nil {
		return validate.Result{}, fmt.Errorf("coordinator: load projects: %w", err)
	}
	settings, err := c.store.GetFactorySettings()
	if err != nil {
		return validate.Result{}, fmt.Errorf("coordinator: load factory settings: %w", err)
	}

	cal := newCalendar(c.store, settings)
	return validate.Validate(validate.Input{
		Cycles: cycles, Projects: projects, Settings: settings, Calendar: cal,
	}), nil
}

// loadSnapshot pulls the full store snapshot capacity/deadline checks need,
// mirroring the snapshot the recalculator loads before calling the engine.
func (c *Coordinator) loadSnapshot() (projects []*types.Project, products []*types.Product, printers []*types.Printer, spools []*types.Spool, inventory []*types.ColorInventoryItem, settings *types.FactorySettings, err error) {
	if projects, err = c.store.GetActiveProjects(); err != nil {
		return
	}
	if products, err = c.store.GetProducts(); err != nil {
		return
	}
	if printers, err = c.store.GetActivePrinters(); err != nil {
		return
	}
	if spools, err = c.store.GetSpools(); err != nil {
		return
	}
	if inventory, err = c.store.GetColorInventory(); err != nil {
		return
	}
	if settings, err = c.store.GetFactorySettings(); err != nil {
		return
	}
	return
}
