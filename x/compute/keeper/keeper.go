package keeper

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// Keeper of the compute store
type Keeper struct {
	tokenKeeper  types.TokenKeeper
	accessKeeper types.AccessKeeper
	moduleAddr   sdk.AccAddress
	logger       log.Logger

	// verifiers and stakeLedgers are the dependencies an admin may select
	// by name through params. Registration happens during app wiring.
	depsMu       sync.RWMutex
	verifiers    map[string]types.Verifier
	stakeLedgers map[string]types.StakeLedger

	metrics *ComputeMetrics
}

// NewKeeper creates a new compute Keeper instance
func NewKeeper(logger log.Logger, tokenKeeper types.TokenKeeper, accessKeeper types.AccessKeeper) *Keeper {
	return &Keeper{
		tokenKeeper:  tokenKeeper,
		accessKeeper: accessKeeper,
		moduleAddr:   authtypes.NewModuleAddress(types.ModuleName),
		logger:       logger.With(log.ModuleKey, "x/"+types.ModuleName),
		verifiers:    make(map[string]types.Verifier),
		stakeLedgers: make(map[string]types.StakeLedger),
		metrics:      NewComputeMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// ModuleAddress returns the account holding job escrow. The registry also
// acts as this address when it rates providers.
func (k *Keeper) ModuleAddress() sdk.AccAddress {
	return k.moduleAddr
}

// RegisterVerifier makes a verifier selectable under name.
func (k *Keeper) RegisterVerifier(name string, v types.Verifier) error {
	if name == "" {
		return types.ErrInvalidParams.Wrap("verifier name cannot be empty")
	}
	if err := types.ValidateDependencyName(name); err != nil {
		return err
	}
	k.depsMu.Lock()
	defer k.depsMu.Unlock()
	if _, exists := k.verifiers[name]; exists {
		return fmt.Errorf("verifier %s already registered", name)
	}
	k.verifiers[name] = v
	return nil
}

// RegisterStakeLedger makes a stake ledger selectable under name.
func (k *Keeper) RegisterStakeLedger(name string, l types.StakeLedger) error {
	if name == "" {
		return types.ErrInvalidParams.Wrap("stake ledger name cannot be empty")
	}
	if err := types.ValidateDependencyName(name); err != nil {
		return err
	}
	k.depsMu.Lock()
	defer k.depsMu.Unlock()
	if _, exists := k.stakeLedgers[name]; exists {
		return fmt.Errorf("stake ledger %s already registered", name)
	}
	k.stakeLedgers[name] = l
	return nil
}

// RegisteredVerifiers lists registered verifier names.
func (k *Keeper) RegisteredVerifiers() []string {
	k.depsMu.RLock()
	defer k.depsMu.RUnlock()
	names := make([]string, 0, len(k.verifiers))
	for name := range k.verifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisteredStakeLedgers lists registered stake ledger names.
func (k *Keeper) RegisteredStakeLedgers() []string {
	k.depsMu.RLock()
	defer k.depsMu.RUnlock()
	names := make([]string, 0, len(k.stakeLedgers))
	for name := range k.stakeLedgers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// verifier resolves the configured verifier. It is absent when params
// name none or name one that is not registered.
func (k *Keeper) verifier(ctx context.Context) (types.Verifier, string, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, "", err
	}
	if params.Verifier == "" {
		return nil, "", types.ErrVerifierNotConfigured
	}
	k.depsMu.RLock()
	v, ok := k.verifiers[params.Verifier]
	k.depsMu.RUnlock()
	if !ok {
		return nil, "", types.ErrVerifierNotConfigured.Wrapf("verifier %s is not registered", params.Verifier)
	}
	return v, params.Verifier, nil
}

// stakeLedger resolves the configured stake ledger.
func (k *Keeper) stakeLedger(ctx context.Context) (types.StakeLedger, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	if params.StakeLedger == "" {
		return nil, types.ErrStakeLedgerNotConfigured
	}
	k.depsMu.RLock()
	l, ok := k.stakeLedgers[params.StakeLedger]
	k.depsMu.RUnlock()
	if !ok {
		return nil, types.ErrStakeLedgerNotConfigured.Wrapf("stake ledger %s is not registered", params.StakeLedger)
	}
	return l, nil
}

// getStore returns the KVStore for the compute module
func (k *Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return txn.UnwrapContext(ctx).KVStore(types.StoreKey)
}

func jobResource(jobID uint64) string {
	return fmt.Sprintf("%s/job/%d", types.ModuleName, jobID)
}
