package txn_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/zkmarket/x/shared/txn"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var (
	testPrefix = []byte{0x01}
	testCaller = sdk.AccAddress([]byte("caller______________"))
)

func newExecutor(t *testing.T) *txn.Executor {
	t.Helper()
	clock := fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return txn.NewExecutor(dbm.NewMemDB(), log.NewNopLogger(), txn.WithClock(clock))
}

func readKey(t *testing.T, e *txn.Executor, key string) []byte {
	t.Helper()
	var val []byte
	require.NoError(t, e.Query(context.Background(), func(c txn.Context) error {
		val = c.KVStore(testPrefix).Get([]byte(key))
		return nil
	}))
	return val
}

// TestExecute_CommitsOnSuccess tests that writes and events persist after a successful operation
func TestExecute_CommitsOnSuccess(t *testing.T) {
	e := newExecutor(t)

	events, err := e.Execute(context.Background(), testCaller, "write", func(c txn.Context) error {
		require.Equal(t, testCaller, c.Caller())
		c.KVStore(testPrefix).Set([]byte("k"), []byte("v"))
		c.EventManager().EmitEvent(sdk.NewEvent("written", sdk.NewAttribute("key", "k")))
		return nil
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, []byte("v"), readKey(t, e, "k"))

	var records []txn.EventRecord
	require.NoError(t, e.IterateEvents(context.Background(), 0, func(r txn.EventRecord) bool {
		records = append(records, r)
		return false
	}))
	require.Len(t, records, 1)
	require.Equal(t, uint64(1), records[0].Seq)
	require.Equal(t, "write", records[0].Operation)
	require.Equal(t, "written", records[0].Type)
	key, ok := records[0].Attr("key")
	require.True(t, ok)
	require.Equal(t, "k", key)
}

// TestExecute_RollsBackOnError tests that a failed operation leaves no writes or events behind
func TestExecute_RollsBackOnError(t *testing.T) {
	e := newExecutor(t)
	boom := errors.New("boom")

	_, err := e.Execute(context.Background(), testCaller, "fail", func(c txn.Context) error {
		c.KVStore(testPrefix).Set([]byte("k"), []byte("v"))
		c.EventManager().EmitEvent(sdk.NewEvent("written"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Nil(t, readKey(t, e, "k"))

	seq, err := e.LastEventSeq(context.Background())
	require.NoError(t, err)
	require.Zero(t, seq)
}

// TestExecute_RecoversPanic tests that a panicking operation is rolled back and reported
func TestExecute_RecoversPanic(t *testing.T) {
	e := newExecutor(t)

	_, err := e.Execute(context.Background(), testCaller, "panic", func(c txn.Context) error {
		c.KVStore(testPrefix).Set([]byte("k"), []byte("v"))
		panic("unexpected")
	})
	require.ErrorIs(t, err, txn.ErrOperationPanicked)
	require.Contains(t, err.Error(), "unexpected")
	require.Nil(t, readKey(t, e, "k"))
}

// TestExecute_RejectsReentrantCall tests that nested Execute and Query calls fail
func TestExecute_RejectsReentrantCall(t *testing.T) {
	e := newExecutor(t)

	_, err := e.Execute(context.Background(), testCaller, "outer", func(c txn.Context) error {
		_, innerErr := e.Execute(c, testCaller, "inner", func(txn.Context) error { return nil })
		require.ErrorIs(t, innerErr, txn.ErrReentrantCall)

		queryErr := e.Query(c, func(txn.Context) error { return nil })
		require.ErrorIs(t, queryErr, txn.ErrReentrantCall)
		return nil
	})
	require.NoError(t, err)
}

// TestContext_EnterGuardsResource tests the per-resource reentrancy guard
func TestContext_EnterGuardsResource(t *testing.T) {
	e := newExecutor(t)

	_, err := e.Execute(context.Background(), testCaller, "guard", func(c txn.Context) error {
		release, err := c.Enter("job/1")
		require.NoError(t, err)

		_, err = c.Enter("job/1")
		require.ErrorIs(t, err, txn.ErrReentrantCall)

		other, err := c.Enter("job/2")
		require.NoError(t, err)
		other()

		release()
		again, err := c.Enter("job/1")
		require.NoError(t, err)
		again()
		return nil
	})
	require.NoError(t, err)
}

// TestContext_WithCallerSharesFrame tests that a re-identified context shares store and guards
func TestContext_WithCallerSharesFrame(t *testing.T) {
	e := newExecutor(t)
	module := sdk.AccAddress([]byte("module______________"))

	_, err := e.Execute(context.Background(), testCaller, "as-module", func(c txn.Context) error {
		release, err := c.Enter("ledger")
		require.NoError(t, err)
		defer release()

		inner := c.WithCaller(module)
		require.Equal(t, module, inner.Caller())
		require.Equal(t, c.BlockTime(), inner.BlockTime())

		_, err = inner.Enter("ledger")
		require.ErrorIs(t, err, txn.ErrReentrantCall)

		inner.KVStore(testPrefix).Set([]byte("k"), []byte("from-module"))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte("from-module"), readKey(t, e, "k"))
}

// TestQuery_DiscardsWrites tests that query writes never reach the store
func TestQuery_DiscardsWrites(t *testing.T) {
	e := newExecutor(t)

	require.NoError(t, e.Query(context.Background(), func(c txn.Context) error {
		require.True(t, c.ReadOnly())
		c.KVStore(testPrefix).Set([]byte("k"), []byte("v"))
		return nil
	}))
	require.Nil(t, readKey(t, e, "k"))
}

// TestIterateEvents_AfterSeq tests resuming the event log from a sequence number
func TestIterateEvents_AfterSeq(t *testing.T) {
	e := newExecutor(t)

	for i := 0; i < 3; i++ {
		_, err := e.Execute(context.Background(), testCaller, "emit", func(c txn.Context) error {
			c.EventManager().EmitEvent(sdk.NewEvent("tick"))
			return nil
		})
		require.NoError(t, err)
	}

	var seqs []uint64
	require.NoError(t, e.IterateEvents(context.Background(), 1, func(r txn.EventRecord) bool {
		seqs = append(seqs, r.Seq)
		return false
	}))
	require.Equal(t, []uint64{2, 3}, seqs)

	last, err := e.LastEventSeq(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(3), last)
}

// TestUnwrapContext_Panics tests unwrapping a plain context
func TestUnwrapContext_Panics(t *testing.T) {
	require.Panics(t, func() { txn.UnwrapContext(context.Background()) })

	_, err := txn.FromContext(context.Background())
	require.ErrorIs(t, err, txn.ErrNoTransaction)
}

type testMsg struct {
	signer sdk.AccAddress
	fail   error
}

func (m testMsg) Route() string             { return "test" }
func (m testMsg) Type() string              { return "write" }
func (m testMsg) GetSigner() sdk.AccAddress { return m.signer }
func (m testMsg) ValidateBasic() error {
	if m.signer.Empty() {
		return txn.ErrInvalidCaller
	}
	return nil
}

// TestRouter_DeliverAndFollowUp tests dispatch, rollback and failure follow-ups
func TestRouter_DeliverAndFollowUp(t *testing.T) {
	e := newExecutor(t)
	boom := errors.New("boom")

	router := txn.NewRouter(e).
		AddRoute("test", func(ctx context.Context, msg txn.Msg) (any, error) {
			c := txn.UnwrapContext(ctx)
			c.KVStore(testPrefix).Set([]byte("k"), []byte("v"))
			return "ok", msg.(testMsg).fail
		}).
		AddFailureHook(func(msg txn.Msg, err error) (txn.FollowUp, bool) {
			if !errors.Is(err, boom) {
				return txn.FollowUp{}, false
			}
			return txn.FollowUp{
				Operation: "test/record-failure",
				Caller:    msg.GetSigner(),
				Run: func(c txn.Context) error {
					c.KVStore(testPrefix).Set([]byte("failed"), []byte("1"))
					return nil
				},
			}, true
		})

	_, err := router.Deliver(context.Background(), testMsg{})
	require.ErrorIs(t, err, txn.ErrInvalidCaller)

	_, err = router.Deliver(context.Background(), testMsg{signer: testCaller, fail: boom})
	require.ErrorIs(t, err, boom)
	require.Nil(t, readKey(t, e, "k"))
	require.Equal(t, []byte("1"), readKey(t, e, "failed"))

	res, err := router.Deliver(context.Background(), testMsg{signer: testCaller})
	require.NoError(t, err)
	require.Equal(t, "ok", res.Response)
	require.Equal(t, []byte("v"), readKey(t, e, "k"))
}
