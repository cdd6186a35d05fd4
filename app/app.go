// Package app wires the marketplace modules into a single application.
//
// Every state change goes through App.Deliver, which routes a message to
// its module handler and runs it as one atomic operation on the shared
// executor. Reads go through App.Query on a read-only snapshot.
//
// Modules:
//   - access: role policy (admin, slasher, rater)
//   - token: payment token ledger
//   - collateral: provider stake and reputation ledger
//   - compute: job registry, escrow and proof-gated settlement
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"go.opentelemetry.io/otel/trace"

	"github.com/paw-chain/zkmarket/app/telemetry"
	accesskeeper "github.com/paw-chain/zkmarket/x/access/keeper"
	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	collateralkeeper "github.com/paw-chain/zkmarket/x/collateral/keeper"
	collateraltypes "github.com/paw-chain/zkmarket/x/collateral/types"
	computekeeper "github.com/paw-chain/zkmarket/x/compute/keeper"
	computetypes "github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/failure"
	"github.com/paw-chain/zkmarket/x/shared/txn"
	tokenkeeper "github.com/paw-chain/zkmarket/x/token/keeper"
	tokentypes "github.com/paw-chain/zkmarket/x/token/types"
)

// ErrAlreadyInitialized is returned by InitChain on a populated store.
var ErrAlreadyInitialized = errors.New("store is already initialized")

// App is the marketplace application.
type App struct {
	logger log.Logger

	Executor   *txn.Executor
	Router     *txn.Router
	Invariants *txn.Invariants

	// keepers
	AccessKeeper     *accesskeeper.Keeper
	TokenKeeper      *tokenkeeper.Keeper
	CollateralKeeper *collateralkeeper.Keeper
	ComputeKeeper    *computekeeper.Keeper

	recorder *telemetry.OperationRecorder
}

type options struct {
	clock     txn.Clock
	tracer    trace.Tracer
	recorder  *telemetry.OperationRecorder
	eventLog  bool
	verifiers map[string]computetypes.Verifier
}

// Option configures New.
type Option func(*options)

// WithClock sets the time source of the executor.
func WithClock(clock txn.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithTracer sets the tracer spans are recorded on.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// WithOperationRecorder records every delivered message.
func WithOperationRecorder(r *telemetry.OperationRecorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithEventLog toggles the persisted event log.
func WithEventLog(enabled bool) Option {
	return func(o *options) { o.eventLog = enabled }
}

// WithVerifier registers a verification oracle selectable by name.
func WithVerifier(name string, v computetypes.Verifier) Option {
	return func(o *options) { o.verifiers[name] = v }
}

// New creates the application over db.
func New(logger log.Logger, db dbm.DB, opts ...Option) (*App, error) {
	o := options{
		clock:     txn.SystemClock{},
		eventLog:  true,
		verifiers: make(map[string]computetypes.Verifier),
	}
	for _, opt := range opts {
		opt(&o)
	}

	execOpts := []txn.Option{txn.WithClock(o.clock), txn.WithEventLog(o.eventLog)}
	if o.tracer != nil {
		execOpts = append(execOpts, txn.WithTracer(o.tracer))
	}

	app := &App{
		logger:     logger,
		Executor:   txn.NewExecutor(db, logger, execOpts...),
		Invariants: &txn.Invariants{},
		recorder:   o.recorder,
	}

	app.AccessKeeper = accesskeeper.NewKeeper(logger)
	app.TokenKeeper = tokenkeeper.NewKeeper(logger, app.AccessKeeper, BlockedModuleAccountAddrs())
	app.CollateralKeeper = collateralkeeper.NewKeeper(logger, app.TokenKeeper, app.AccessKeeper)
	app.ComputeKeeper = computekeeper.NewKeeper(logger, app.TokenKeeper, app.AccessKeeper)

	if err := app.ComputeKeeper.RegisterStakeLedger(computetypes.DefaultStakeLedger, app.CollateralKeeper); err != nil {
		return nil, err
	}
	for name, v := range o.verifiers {
		if err := app.ComputeKeeper.RegisterVerifier(name, v); err != nil {
			return nil, err
		}
	}

	app.Router = txn.NewRouter(app.Executor).
		AddRoute(accesstypes.RouterKey, accesskeeper.NewHandler(*app.AccessKeeper)).
		AddRoute(tokentypes.RouterKey, tokenkeeper.NewHandler(app.TokenKeeper)).
		AddRoute(collateraltypes.RouterKey, collateralkeeper.NewHandler(*app.CollateralKeeper)).
		AddRoute(computetypes.RouterKey, computekeeper.NewHandler(app.ComputeKeeper)).
		AddFailureHook(computekeeper.LateSubmissionHook(app.ComputeKeeper))

	collateralkeeper.RegisterInvariants(app.Invariants, *app.CollateralKeeper)
	computekeeper.RegisterInvariants(app.Invariants, app.ComputeKeeper)

	return app, nil
}

// Logger returns the application logger.
func (app *App) Logger() log.Logger { return app.logger }

// Now returns the executor's current time.
func (app *App) Now() time.Time { return app.Executor.Now() }

// Deliver runs msg as one atomic operation on behalf of its signer.
func (app *App) Deliver(ctx context.Context, msg txn.Msg) (txn.Result, error) {
	start := time.Now()
	res, err := app.Router.Deliver(ctx, msg)
	if app.recorder != nil {
		outcome := telemetry.OutcomeOK
		if err != nil {
			outcome = failure.Classify(err).String()
		}
		app.recorder.Record(ctx, msg.Route(), msg.Type(), outcome, time.Since(start))
	}
	return res, err
}

// Query runs fn against a read-only snapshot of the store.
func (app *App) Query(ctx context.Context, fn func(txn.Context) error) error {
	return app.Executor.Query(ctx, fn)
}

// Initialized reports whether genesis has been applied.
func (app *App) Initialized(ctx context.Context) (bool, error) {
	var initialized bool
	err := app.Query(ctx, func(c txn.Context) error {
		initialized = len(app.AccessKeeper.Members(c, accesstypes.RoleAdmin)) > 0
		return nil
	})
	return initialized, err
}

// InitChain applies gs to an empty store in a single operation.
func (app *App) InitChain(ctx context.Context, gs GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	initialized, err := app.Initialized(ctx)
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyInitialized
	}

	access, _ := gs.Access()
	token, _ := gs.Token()
	collateral, _ := gs.Collateral()
	compute, _ := gs.Compute()

	_, err = app.Executor.Execute(ctx, nil, "genesis", func(c txn.Context) error {
		if err := app.AccessKeeper.InitGenesis(c, access); err != nil {
			return fmt.Errorf("access genesis: %w", err)
		}
		if err := app.TokenKeeper.InitGenesis(c, token); err != nil {
			return fmt.Errorf("token genesis: %w", err)
		}
		if err := app.CollateralKeeper.InitGenesis(c, collateral); err != nil {
			return fmt.Errorf("collateral genesis: %w", err)
		}
		if err := app.ComputeKeeper.InitGenesis(c, compute); err != nil {
			return fmt.Errorf("compute genesis: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if broken, err := app.CheckInvariants(ctx); err != nil {
		return err
	} else if len(broken) > 0 {
		return fmt.Errorf("genesis breaks invariants:\n%s", strings.Join(broken, "\n"))
	}
	app.logger.Info("genesis applied", "modules", len(gs))
	return nil
}

// ExportGenesis exports the current state of every module.
func (app *App) ExportGenesis(ctx context.Context) (GenesisState, error) {
	gs := make(GenesisState)
	err := app.Query(ctx, func(c txn.Context) error {
		if err := gs.Set(accesstypes.ModuleName, app.AccessKeeper.ExportGenesis(c)); err != nil {
			return err
		}
		if err := gs.Set(tokentypes.ModuleName, app.TokenKeeper.ExportGenesis(c)); err != nil {
			return err
		}
		collateral, err := app.CollateralKeeper.ExportGenesis(c)
		if err != nil {
			return err
		}
		if err := gs.Set(collateraltypes.ModuleName, collateral); err != nil {
			return err
		}
		compute, err := app.ComputeKeeper.ExportGenesis(c)
		if err != nil {
			return err
		}
		return gs.Set(computetypes.ModuleName, compute)
	})
	if err != nil {
		return nil, err
	}
	return gs, nil
}

// CheckInvariants runs every registered invariant and returns the broken ones.
func (app *App) CheckInvariants(ctx context.Context) ([]string, error) {
	return app.Invariants.Check(ctx, app.Executor)
}

// Close releases the executor and its database.
func (app *App) Close() error {
	return app.Executor.Close()
}

// BlockedModuleAccountAddrs returns the module accounts that cannot
// receive funds through messages.
func BlockedModuleAccountAddrs() map[string]bool {
	modAccAddrs := make(map[string]bool)
	for _, acc := range moduleAccounts {
		modAccAddrs[authtypes.NewModuleAddress(acc).String()] = true
	}
	return modAccAddrs
}

// module accounts holding user funds
var moduleAccounts = []string{
	collateraltypes.ModuleName,
	computetypes.ModuleName,
}

// ModuleAddress returns the account of a module.
func ModuleAddress(module string) sdk.AccAddress {
	return authtypes.NewModuleAddress(module)
}
