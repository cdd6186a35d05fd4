package keeper

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/zkmarket/app"
	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	collateraltypes "github.com/paw-chain/zkmarket/x/collateral/types"
	computetypes "github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/compute/verifier"
	"github.com/paw-chain/zkmarket/x/shared/txn"
	tokentypes "github.com/paw-chain/zkmarket/x/token/types"
)

// StaticVerifierName is the name the fixture registers its verifier under.
const StaticVerifierName = "static"

// Denom is the payment and stake denom of the fixture.
const Denom = app.BondDenom

// GenesisTime is the fixture clock's start.
var GenesisTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Fixture is a fully wired application over an in-memory database.
type Fixture struct {
	t testing.TB

	Ctx      context.Context
	App      *app.App
	Clock    *ManualClock
	Verifier *verifier.StaticVerifier
	Admin    sdk.AccAddress
}

// FixtureOption edits the genesis before it is applied.
type FixtureOption func(gs app.GenesisState)

// WithComputeParams sets compute params at genesis.
func WithComputeParams(fn func(*computetypes.Params)) FixtureOption {
	return func(gs app.GenesisState) {
		compute, err := gs.Compute()
		if err != nil {
			panic(err)
		}
		fn(&compute.Params)
		if err := gs.Set(computetypes.ModuleName, compute); err != nil {
			panic(err)
		}
	}
}

// WithCollateralParams sets collateral params at genesis.
func WithCollateralParams(fn func(*collateraltypes.Params)) FixtureOption {
	return func(gs app.GenesisState) {
		collateral, err := gs.Collateral()
		if err != nil {
			panic(err)
		}
		fn(&collateral.Params)
		if err := gs.Set(collateraltypes.ModuleName, collateral); err != nil {
			panic(err)
		}
	}
}

// Addr returns a deterministic test address for name.
func Addr(name string) sdk.AccAddress {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.AccAddress(bz)
}

// NewFixture builds the application, applies genesis with an admin that
// also holds the slasher role, and selects the static verifier.
func NewFixture(t testing.TB, opts ...FixtureOption) *Fixture {
	t.Helper()

	clock := NewManualClock(GenesisTime)
	static := verifier.NewStaticVerifier(verifier.AcceptAll())
	a, err := app.New(log.NewNopLogger(), dbm.NewMemDB(),
		app.WithClock(clock),
		app.WithVerifier(StaticVerifierName, static),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	admin := Addr("admin")
	gs := app.NewDefaultGenesisState(admin)

	access, err := gs.Access()
	require.NoError(t, err)
	access.Grants = append(access.Grants, accesstypes.Grant{Role: accesstypes.RoleSlasher, Address: admin.String()})
	require.NoError(t, gs.Set(accesstypes.ModuleName, access))

	WithComputeParams(func(p *computetypes.Params) { p.Verifier = StaticVerifierName })(gs)
	for _, opt := range opts {
		opt(gs)
	}

	ctx := context.Background()
	require.NoError(t, a.InitChain(ctx, gs))

	return &Fixture{
		t:        t,
		Ctx:      ctx,
		App:      a,
		Clock:    clock,
		Verifier: static,
		Admin:    admin,
	}
}

// Deliver delivers msg through the router.
func (f *Fixture) Deliver(msg txn.Msg) (txn.Result, error) {
	return f.App.Deliver(f.Ctx, msg)
}

// MustDeliver delivers msg and fails the test on error.
func (f *Fixture) MustDeliver(msg txn.Msg) txn.Result {
	f.t.Helper()
	res, err := f.Deliver(msg)
	require.NoError(f.t, err)
	return res
}

// Exec runs fn as an atomic operation on behalf of caller.
func (f *Fixture) Exec(caller sdk.AccAddress, fn func(c txn.Context) error) error {
	_, err := f.App.Executor.Execute(f.Ctx, caller, "test", fn)
	return err
}

// Query runs fn against a read-only snapshot.
func (f *Fixture) Query(fn func(c txn.Context) error) {
	f.t.Helper()
	require.NoError(f.t, f.App.Query(f.Ctx, fn))
}

// Fund mints amount of the fixture denom to account and approves both
// the collateral and compute module accounts to pull it.
func (f *Fixture) Fund(account sdk.AccAddress, amount int64) {
	f.t.Helper()
	coin := sdk.NewInt64Coin(Denom, amount)
	f.MustDeliver(&tokentypes.MsgMint{Sender: f.Admin.String(), Recipient: account.String(), Amount: coin})
	f.Approve(account, app.ModuleAddress(collateraltypes.ModuleName), math.NewInt(amount))
	f.Approve(account, app.ModuleAddress(computetypes.ModuleName), math.NewInt(amount))
}

// Approve sets owner's allowance for spender.
func (f *Fixture) Approve(owner, spender sdk.AccAddress, amount math.Int) {
	f.t.Helper()
	f.MustDeliver(&tokentypes.MsgApprove{
		Sender:  owner.String(),
		Spender: spender.String(),
		Amount:  sdk.NewCoin(Denom, amount),
	})
}

// Balance returns account's balance of the fixture denom.
func (f *Fixture) Balance(account sdk.AccAddress) math.Int {
	f.t.Helper()
	var bal math.Int
	f.Query(func(c txn.Context) error {
		bal = f.App.TokenKeeper.BalanceOf(c, Denom, account)
		return nil
	})
	return bal
}

// Provider returns provider's stake ledger record.
func (f *Fixture) Provider(provider sdk.AccAddress) collateraltypes.ProviderAccount {
	f.t.Helper()
	var acct collateraltypes.ProviderAccount
	f.Query(func(c txn.Context) error {
		var err error
		acct, err = f.App.CollateralKeeper.GetInfo(c, provider)
		return err
	})
	return acct
}

// Job returns a stored job.
func (f *Fixture) Job(jobID uint64) computetypes.Job {
	f.t.Helper()
	var job *computetypes.Job
	f.Query(func(c txn.Context) error {
		var err error
		job, err = f.App.ComputeKeeper.GetJob(c, jobID)
		return err
	})
	return *job
}

// StakeProvider funds provider and stakes amount.
func (f *Fixture) StakeProvider(provider sdk.AccAddress, amount int64) {
	f.t.Helper()
	f.Fund(provider, amount)
	f.MustDeliver(&collateraltypes.MsgStake{Sender: provider.String(), Amount: math.NewInt(amount)})
}

// CreateJob funds client and creates a job paying amount that is due in ttl.
func (f *Fixture) CreateJob(client sdk.AccAddress, amount int64, ttl time.Duration, programID computetypes.Digest) uint64 {
	f.t.Helper()
	f.Fund(client, amount)
	res := f.MustDeliver(&computetypes.MsgCreateJob{
		Sender:    client.String(),
		DataRef:   "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi",
		Amount:    math.NewInt(amount),
		Deadline:  f.Clock.Now().Add(ttl),
		ProgramID: programID,
	})
	return res.Response.(*computetypes.MsgCreateJobResponse).JobID
}

// RequireInvariants fails the test if any invariant is broken.
func (f *Fixture) RequireInvariants() {
	f.t.Helper()
	broken, err := f.App.CheckInvariants(f.Ctx)
	require.NoError(f.t, err)
	require.Empty(f.t, broken)
}

// EventsOfType returns committed events of type typ in sequence order.
func (f *Fixture) EventsOfType(typ string) []txn.EventRecord {
	f.t.Helper()
	var out []txn.EventRecord
	require.NoError(f.t, f.App.Executor.IterateEvents(f.Ctx, 0, func(r txn.EventRecord) bool {
		if r.Type == typ {
			out = append(out, r)
		}
		return false
	}))
	return out
}

// EscrowStats returns the compute module's escrow accounting.
func (f *Fixture) EscrowStats() computetypes.EscrowStats {
	f.t.Helper()
	var stats computetypes.EscrowStats
	f.Query(func(c txn.Context) error {
		var err error
		stats, err = f.App.ComputeKeeper.GetEscrowStats(c)
		return err
	})
	return stats
}
