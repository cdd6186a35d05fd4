package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/zkmarket/app"
	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	computetypes "github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/compute/verifier"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

var admin = sdk.AccAddress([]byte("admin_______________"))

func newApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(log.NewNopLogger(), dbm.NewMemDB(),
		app.WithVerifier(computetypes.DefaultVerifier, verifier.NewStaticVerifier(verifier.AcceptAll())),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// TestDefaultGenesis tests the grants and params of the default genesis
func TestDefaultGenesis(t *testing.T) {
	gs := app.NewDefaultGenesisState(admin)
	require.NoError(t, gs.Validate())

	access, err := gs.Access()
	require.NoError(t, err)
	require.Contains(t, access.Grants, accesstypes.Grant{Role: accesstypes.RoleAdmin, Address: admin.String()})
	require.Contains(t, access.Grants, accesstypes.Grant{
		Role:    accesstypes.RoleRater,
		Address: app.ModuleAddress(computetypes.ModuleName).String(),
	})

	compute, err := gs.Compute()
	require.NoError(t, err)
	require.Equal(t, computetypes.DefaultVerifier, compute.Params.Verifier)
	require.Equal(t, computetypes.DefaultStakeLedger, compute.Params.StakeLedger)
	require.True(t, compute.Params.MinProviderStake.Equal(computetypes.DefaultMinProviderStake))
}

// TestGenesisFile tests writing and reading genesis.json
func TestGenesisFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "genesis.json")
	gs := app.NewDefaultGenesisState(admin)
	require.NoError(t, app.WriteGenesisFile(path, gs))

	read, err := app.ReadGenesisFile(path)
	require.NoError(t, err)
	for module := range gs {
		require.JSONEq(t, string(gs[module]), string(read[module]), module)
	}

	_, err = app.ReadGenesisFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	delete(read, computetypes.ModuleName)
	require.ErrorContains(t, read.Validate(), "missing")
}

// TestInitChain tests that genesis applies once and is visible through the keepers
func TestInitChain(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	initialized, err := a.Initialized(ctx)
	require.NoError(t, err)
	require.False(t, initialized)

	require.NoError(t, a.InitChain(ctx, app.NewDefaultGenesisState(admin)))
	require.ErrorIs(t, a.InitChain(ctx, app.NewDefaultGenesisState(admin)), app.ErrAlreadyInitialized)

	initialized, err = a.Initialized(ctx)
	require.NoError(t, err)
	require.True(t, initialized)

	require.NoError(t, a.Query(ctx, func(c txn.Context) error {
		require.True(t, a.AccessKeeper.HasRole(c, accesstypes.RoleAdmin, admin))
		return nil
	}))

	broken, err := a.CheckInvariants(ctx)
	require.NoError(t, err)
	require.Empty(t, broken)
}

// TestBlockedModuleAccounts tests that both module accounts are blocked
func TestBlockedModuleAccounts(t *testing.T) {
	blocked := app.BlockedModuleAccountAddrs()
	require.True(t, blocked[app.ModuleAddress(computetypes.ModuleName).String()])
	require.True(t, blocked[app.ModuleAddress("collateral").String()])
	require.False(t, blocked[admin.String()])
}
