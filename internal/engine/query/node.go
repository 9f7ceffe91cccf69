package query

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/memo/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/memo/internal/core/ports"
)

// NodeID is the unique identifier for the engine Graft node.
const NodeID graft.ID = "engine.query"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewEngine(Options{Logger: log, Tracer: tracer}), nil
		},
	})
}
