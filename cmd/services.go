package cmd

import (
	"fmt"

	"github.com/kayz/syllabus/internal/config"
	"github.com/kayz/syllabus/internal/gate"
	"github.com/kayz/syllabus/internal/logger"
	"github.com/kayz/syllabus/internal/persist"
	"github.com/kayz/syllabus/internal/promptbuild"
	"github.com/kayz/syllabus/internal/provider"
	"github.com/kayz/syllabus/internal/tutor"
)

// services bundles the components shared by chat, summarize and serve.
type services struct {
	gate    *gate.Gate
	builder *promptbuild.Builder
	store   *persist.Store
	tutor   *tutor.Service
}

// newServices wires the tutor from cfg. The history store is opened only when
// withStore is set and a path is configured.
func newServices(cfg *config.Config, withStore bool) (*services, error) {
	g, err := gate.NewFromConfig(cfg.Gate)
	if err != nil {
		return nil, fmt.Errorf("create gate: %w", err)
	}

	p, err := provider.New(cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	logger.Debug("[CLI] provider=%s model=%s", p.Name(), cfg.AI.Model)

	rt := &services{
		gate:    g,
		builder: promptbuild.NewBuilder(cfg.PromptBuild),
	}

	if withStore && cfg.Store.SQLitePath != "" {
		rt.store, err = persist.NewStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
	}

	rt.tutor, err = tutor.New(p, tutor.Options{
		Gate:         g,
		Builder:      rt.builder,
		Store:        rt.store,
		Model:        cfg.AI.Model,
		HistoryLimit: cfg.Store.HistoryLimit,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *services) Close() {
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			logger.Warn("[CLI] close store: %v", err)
		}
	}
}
