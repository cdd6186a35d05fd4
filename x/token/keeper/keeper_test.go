package keeper_test

import (
	"context"
	"errors"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/zkmarket/app"
	keepertest "github.com/paw-chain/zkmarket/testutil/keeper"
	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	collateraltypes "github.com/paw-chain/zkmarket/x/collateral/types"
	computetypes "github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
	"github.com/paw-chain/zkmarket/x/token/types"
)

type recordingHook struct {
	calls []string
	fail  bool
}

func (h *recordingHook) AfterTransfer(_ context.Context, from, to sdk.AccAddress, amount sdk.Coin) error {
	if h.fail {
		return errors.New("recipient refused")
	}
	h.calls = append(h.calls, from.String()+">"+to.String()+":"+amount.String())
	return nil
}

func coin(amount int64) sdk.Coin {
	return sdk.NewInt64Coin(keepertest.Denom, amount)
}

func allowance(f *keepertest.Fixture, owner, spender sdk.AccAddress) math.Int {
	var a math.Int
	f.Query(func(c txn.Context) error {
		a = f.App.TokenKeeper.Allowance(c, keepertest.Denom, owner, spender)
		return nil
	})
	return a
}

// TestMint tests that only admins create supply
func TestMint(t *testing.T) {
	f := keepertest.NewFixture(t)
	alice := keepertest.Addr("alice")

	_, err := f.Deliver(&types.MsgMint{Sender: alice.String(), Recipient: alice.String(), Amount: coin(10)})
	require.ErrorIs(t, err, accesstypes.ErrUnauthorized)
	var unauthorized *accesstypes.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	require.Equal(t, accesstypes.RoleAdmin, unauthorized.Role)

	f.MustDeliver(&types.MsgMint{Sender: f.Admin.String(), Recipient: alice.String(), Amount: coin(10)})
	require.Equal(t, math.NewInt(10), f.Balance(alice))

	var supply math.Int
	f.Query(func(c txn.Context) error {
		supply = f.App.TokenKeeper.TotalSupply(c, keepertest.Denom)
		return nil
	})
	require.Equal(t, math.NewInt(10), supply)

	_, err = f.Deliver(&types.MsgMint{Sender: f.Admin.String(), Recipient: alice.String(), Amount: coin(0)})
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

// TestTransfer tests balance movement between accounts
func TestTransfer(t *testing.T) {
	f := keepertest.NewFixture(t)
	alice, bob := keepertest.Addr("alice"), keepertest.Addr("bob")
	f.Fund(alice, 100)

	f.MustDeliver(&types.MsgTransfer{Sender: alice.String(), Recipient: bob.String(), Amount: coin(40)})
	require.Equal(t, math.NewInt(60), f.Balance(alice))
	require.Equal(t, math.NewInt(40), f.Balance(bob))

	_, err := f.Deliver(&types.MsgTransfer{Sender: alice.String(), Recipient: bob.String(), Amount: coin(61)})
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
	require.Equal(t, math.NewInt(60), f.Balance(alice))

	_, err = f.Deliver(&types.MsgTransfer{Sender: alice.String(), Recipient: "not-an-address", Amount: coin(1)})
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	events := f.EventsOfType(types.EventTypeTransfer)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	recipient, _ := last.Attr(types.AttributeKeyRecipient)
	amount, _ := last.Attr(types.AttributeKeyAmount)
	require.Equal(t, bob.String(), recipient)
	require.Equal(t, "40", amount)
}

// TestTransfer_BlockedRecipient tests that module accounts only receive
// funds through keeper calls
func TestTransfer_BlockedRecipient(t *testing.T) {
	f := keepertest.NewFixture(t)
	alice := keepertest.Addr("alice")
	f.Fund(alice, 100)

	for _, module := range []string{collateraltypes.ModuleName, computetypes.ModuleName} {
		_, err := f.Deliver(&types.MsgTransfer{Sender: alice.String(), Recipient: app.ModuleAddress(module).String(), Amount: coin(1)})
		require.ErrorIs(t, err, types.ErrBlockedRecipient, module)

		_, err = f.Deliver(&types.MsgMint{Sender: f.Admin.String(), Recipient: app.ModuleAddress(module).String(), Amount: coin(1)})
		require.ErrorIs(t, err, types.ErrBlockedRecipient, module)
	}
	require.Equal(t, math.NewInt(100), f.Balance(alice))
}

// TestApproveAndTransferFrom tests that approvals set, and pulls consume, the allowance
func TestApproveAndTransferFrom(t *testing.T) {
	f := keepertest.NewFixture(t)
	owner, spender, sink := keepertest.Addr("owner"), keepertest.Addr("spender"), keepertest.Addr("sink")
	f.Fund(owner, 100)

	f.Approve(owner, spender, math.NewInt(30))
	f.Approve(owner, spender, math.NewInt(50))
	require.Equal(t, math.NewInt(50), allowance(f, owner, spender))

	err := f.Exec(spender, func(c txn.Context) error {
		return f.App.TokenKeeper.TransferFrom(c, spender, owner, sink, coin(20))
	})
	require.NoError(t, err)
	require.Equal(t, math.NewInt(30), allowance(f, owner, spender))
	require.Equal(t, math.NewInt(20), f.Balance(sink))

	err = f.Exec(spender, func(c txn.Context) error {
		return f.App.TokenKeeper.TransferFrom(c, spender, owner, sink, coin(31))
	})
	require.ErrorIs(t, err, types.ErrInsufficientAllowance)

	// allowance above balance: the transfer fails and the allowance is restored
	f.Approve(owner, spender, math.NewInt(500))
	err = f.Exec(spender, func(c txn.Context) error {
		return f.App.TokenKeeper.TransferFrom(c, spender, owner, sink, coin(200))
	})
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
	require.Equal(t, math.NewInt(500), allowance(f, owner, spender))
	require.Equal(t, math.NewInt(80), f.Balance(owner))
}

// TestTransferHooks tests hook invocation and that a hook error aborts the transfer
func TestTransferHooks(t *testing.T) {
	f := keepertest.NewFixture(t)
	alice, bob := keepertest.Addr("alice"), keepertest.Addr("bob")
	f.Fund(alice, 100)

	hook := &recordingHook{}
	f.App.TokenKeeper.SetHooks(hook)
	require.Panics(t, func() { f.App.TokenKeeper.SetHooks(hook) })

	f.MustDeliver(&types.MsgTransfer{Sender: alice.String(), Recipient: bob.String(), Amount: coin(5)})
	require.Equal(t, []string{alice.String() + ">" + bob.String() + ":5" + keepertest.Denom}, hook.calls)

	hook.fail = true
	_, err := f.Deliver(&types.MsgTransfer{Sender: alice.String(), Recipient: bob.String(), Amount: coin(5)})
	require.ErrorIs(t, err, types.ErrHookFailed)
	require.Equal(t, math.NewInt(95), f.Balance(alice))
	require.Equal(t, math.NewInt(5), f.Balance(bob))
}

// TestGetAllBalances tests the per-account balance listing
func TestGetAllBalances(t *testing.T) {
	f := keepertest.NewFixture(t)
	alice := keepertest.Addr("alice")
	f.Fund(alice, 7)
	f.MustDeliver(&types.MsgMint{Sender: f.Admin.String(), Recipient: alice.String(), Amount: sdk.NewInt64Coin("uusdc", 3)})

	var balances sdk.Coins
	f.Query(func(c txn.Context) error {
		balances = f.App.TokenKeeper.GetAllBalances(c, alice)
		return nil
	})
	require.Equal(t, sdk.NewCoins(coin(7), sdk.NewInt64Coin("uusdc", 3)), balances)
}
