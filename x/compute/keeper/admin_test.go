package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/zkmarket/testutil/keeper"
	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

func computeParams(f *keepertest.Fixture) types.Params {
	var params types.Params
	f.Query(func(c txn.Context) error {
		var err error
		params, err = f.App.ComputeKeeper.GetParams(c)
		return err
	})
	return params
}

// TestAdminSetters_RequireAdmin tests that parameter setters are admin only
func TestAdminSetters_RequireAdmin(t *testing.T) {
	f := keepertest.NewFixture(t)
	outsider := keepertest.Addr("outsider").String()

	msgs := []txn.Msg{
		&types.MsgSetMinProviderStake{Sender: outsider, Amount: math.NewInt(1)},
		&types.MsgSetVerifier{Sender: outsider, Name: keepertest.StaticVerifierName},
		&types.MsgSetStakeLedger{Sender: outsider, Name: types.DefaultStakeLedger},
		&types.MsgSetLifecycle{Sender: outsider, Lifecycle: types.LifecycleTwoPhase},
	}
	before := computeParams(f)
	for _, msg := range msgs {
		_, err := f.Deliver(msg)
		require.ErrorIs(t, err, accesstypes.ErrUnauthorized, msg.Type())
	}
	require.Equal(t, before, computeParams(f))
}

// TestSetMinProviderStake tests the minimum stake setter and its event
func TestSetMinProviderStake(t *testing.T) {
	f := keepertest.NewFixture(t)

	res := f.MustDeliver(&types.MsgSetMinProviderStake{Sender: f.Admin.String(), Amount: math.NewInt(750)})
	require.Equal(t, math.NewInt(750), computeParams(f).MinProviderStake)

	param, _ := eventAttr(res.Events, types.EventTypeParamsUpdated, types.AttributeKeyParam)
	before, _ := eventAttr(res.Events, types.EventTypeParamsUpdated, types.AttributeKeyBefore)
	after, _ := eventAttr(res.Events, types.EventTypeParamsUpdated, types.AttributeKeyAfter)
	require.Equal(t, "min_provider_stake", param)
	require.Equal(t, "500", before)
	require.Equal(t, "750", after)

	f.MustDeliver(&types.MsgSetMinProviderStake{Sender: f.Admin.String(), Amount: math.ZeroInt()})
	require.True(t, computeParams(f).MinProviderStake.IsZero())

	_, err := f.Deliver(&types.MsgSetMinProviderStake{Sender: f.Admin.String(), Amount: math.NewInt(-1)})
	require.ErrorIs(t, err, types.ErrInvalidParams)
}

// TestSetVerifier tests selecting verifiers by registered name
func TestSetVerifier(t *testing.T) {
	f := keepertest.NewFixture(t)

	_, err := f.Deliver(&types.MsgSetVerifier{Sender: f.Admin.String(), Name: "groth16"})
	require.ErrorIs(t, err, types.ErrVerifierNotConfigured)
	require.Equal(t, keepertest.StaticVerifierName, computeParams(f).Verifier)

	_, err = f.Deliver(&types.MsgSetVerifier{Sender: f.Admin.String(), Name: "Not Valid"})
	require.ErrorIs(t, err, types.ErrInvalidParams)

	res := f.MustDeliver(&types.MsgSetVerifier{Sender: f.Admin.String(), Name: ""})
	before, _ := eventAttr(res.Events, types.EventTypeParamsUpdated, types.AttributeKeyBefore)
	require.Equal(t, keepertest.StaticVerifierName, before)
	require.Empty(t, computeParams(f).Verifier)

	require.Equal(t, []string{keepertest.StaticVerifierName}, f.App.ComputeKeeper.RegisteredVerifiers())
}

// TestSetStakeLedger tests selecting stake ledgers by registered name
func TestSetStakeLedger(t *testing.T) {
	f := keepertest.NewFixture(t)

	_, err := f.Deliver(&types.MsgSetStakeLedger{Sender: f.Admin.String(), Name: "elsewhere"})
	require.ErrorIs(t, err, types.ErrStakeLedgerNotConfigured)

	f.MustDeliver(&types.MsgSetStakeLedger{Sender: f.Admin.String(), Name: ""})
	require.Empty(t, computeParams(f).StakeLedger)

	f.MustDeliver(&types.MsgSetStakeLedger{Sender: f.Admin.String(), Name: types.DefaultStakeLedger})
	require.Equal(t, types.DefaultStakeLedger, computeParams(f).StakeLedger)
	require.Equal(t, []string{types.DefaultStakeLedger}, f.App.ComputeKeeper.RegisteredStakeLedgers())
}

// TestSetLifecycle tests lifecycle validation
func TestSetLifecycle(t *testing.T) {
	f := keepertest.NewFixture(t)

	_, err := f.Deliver(&types.MsgSetLifecycle{Sender: f.Admin.String(), Lifecycle: "three_phase"})
	require.ErrorIs(t, err, types.ErrInvalidLifecycle)

	f.MustDeliver(&types.MsgSetLifecycle{Sender: f.Admin.String(), Lifecycle: types.LifecycleTwoPhase})
	require.Equal(t, types.LifecycleTwoPhase, computeParams(f).Lifecycle)
}

// TestRegisterDependencies tests verifier and stake ledger registration
func TestRegisterDependencies(t *testing.T) {
	f := keepertest.NewFixture(t)
	k := f.App.ComputeKeeper

	require.Error(t, k.RegisterVerifier(keepertest.StaticVerifierName, f.Verifier))
	require.ErrorIs(t, k.RegisterVerifier("", f.Verifier), types.ErrInvalidParams)
	require.NoError(t, k.RegisterVerifier("backup", f.Verifier))
	require.Equal(t, []string{"backup", keepertest.StaticVerifierName}, k.RegisteredVerifiers())

	require.Error(t, k.RegisterStakeLedger(types.DefaultStakeLedger, f.App.CollateralKeeper))
	require.ErrorIs(t, k.RegisterStakeLedger("UPPER", f.App.CollateralKeeper), types.ErrInvalidParams)

	f.MustDeliver(&types.MsgSetVerifier{Sender: f.Admin.String(), Name: "backup"})
	require.Equal(t, "backup", computeParams(f).Verifier)
}
