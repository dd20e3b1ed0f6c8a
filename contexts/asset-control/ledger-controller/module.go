package ledgercontroller

import (
	"log/slog"

	apiadapter "tokengate/contexts/asset-control/ledger-controller/adapters/api"
	"tokengate/contexts/asset-control/ledger-controller/adapters/memory"
	"tokengate/contexts/asset-control/ledger-controller/application/commands"
	"tokengate/contexts/asset-control/ledger-controller/application/queries"
	"tokengate/contexts/asset-control/ledger-controller/ports"
)

// Module is the ledger-controller composition root exposed to runtime wiring.
type Module struct {
	Handler apiadapter.Handler
	Store   *memory.Store
	Ledger  *memory.Ledger
}

// Dependencies captures all runtime ports required by NewModule. Ledger may be
// nil for processes that only read or flip the pause switch.
type Dependencies struct {
	Repository  ports.Repository
	Ledger      ports.Ledger
	Recorder    ports.DecisionRecorder
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires the gate use-cases and the command handler.
func NewModule(deps Dependencies) Module {
	handler := apiadapter.Handler{
		Initialize: commands.InitializeAssetUseCase{
			Repository:  deps.Repository,
			Ledger:      deps.Ledger,
			Recorder:    deps.Recorder,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		Issue: commands.IssueUseCase{
			Repository: deps.Repository,
			Ledger:     deps.Ledger,
			Recorder:   deps.Recorder,
			Logger:     deps.Logger,
		},
		Destroy: commands.DestroyUseCase{
			Repository: deps.Repository,
			Ledger:     deps.Ledger,
			Recorder:   deps.Recorder,
			Logger:     deps.Logger,
		},
		Move: commands.MoveUseCase{
			Repository: deps.Repository,
			Ledger:     deps.Ledger,
			Recorder:   deps.Recorder,
			Logger:     deps.Logger,
		},
		Freeze: commands.FreezeAccountUseCase{
			Repository: deps.Repository,
			Ledger:     deps.Ledger,
			Recorder:   deps.Recorder,
			Logger:     deps.Logger,
		},
		Unfreeze: commands.UnfreezeAccountUseCase{
			Repository: deps.Repository,
			Ledger:     deps.Ledger,
			Recorder:   deps.Recorder,
			Logger:     deps.Logger,
		},
		Pause: commands.PauseUseCase{
			Repository:  deps.Repository,
			Recorder:    deps.Recorder,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		Unpause: commands.UnpauseUseCase{
			Repository:  deps.Repository,
			Recorder:    deps.Recorder,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		GetState: queries.GetControlStateUseCase{
			Repository: deps.Repository,
			Logger:     deps.Logger,
		},
		Logger: deps.Logger,
	}
	return Module{Handler: handler}
}

// NewInMemoryModule builds a development/testing module with an in-memory
// store and an in-memory ledger.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	ledger := memory.NewLedger()
	module := NewModule(Dependencies{
		Repository:  store,
		Ledger:      ledger,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	module.Ledger = ledger
	return module
}
