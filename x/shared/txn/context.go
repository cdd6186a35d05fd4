package txn

import (
	"context"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

type contextKey struct{}

// frame is the state shared by every Context derived from a single operation.
type frame struct {
	operation string
	store     storetypes.KVStore
	events    *sdk.EventManager
	guards    map[string]struct{}
	readOnly  bool
}

// Context carries one operation's branched store, its caller and the
// clock reading taken when the operation started. Keepers receive it as a
// plain context.Context and unwrap it with UnwrapContext.
type Context struct {
	baseCtx context.Context
	frame   *frame
	caller  sdk.AccAddress
	now     time.Time
	logger  log.Logger
}

var _ context.Context = Context{}

func (c Context) Deadline() (time.Time, bool) { return c.baseCtx.Deadline() }
func (c Context) Done() <-chan struct{}       { return c.baseCtx.Done() }
func (c Context) Err() error                  { return c.baseCtx.Err() }

func (c Context) Value(key any) any {
	if _, ok := key.(contextKey); ok {
		return c
	}
	return c.baseCtx.Value(key)
}

// Operation returns the name of the executing operation.
func (c Context) Operation() string { return c.frame.operation }

// Caller returns the identity the operation runs on behalf of.
func (c Context) Caller() sdk.AccAddress { return c.caller }

// BlockTime returns the clock reading for this operation. It is fixed for
// the whole operation so every deadline check inside one call agrees.
func (c Context) BlockTime() time.Time { return c.now }

// Logger returns the operation logger.
func (c Context) Logger() log.Logger { return c.logger }

// ReadOnly reports whether writes made through this context are discarded.
func (c Context) ReadOnly() bool { return c.frame.readOnly }

// EventManager returns the event manager collecting this operation's events.
func (c Context) EventManager() *sdk.EventManager { return c.frame.events }

// KVStore returns the operation's branched store scoped to the given prefix.
func (c Context) KVStore(storePrefix []byte) storetypes.KVStore {
	return prefix.NewStore(c.frame.store, storePrefix)
}

// WithCaller returns a copy of the context acting as another identity. It
// is used when one module calls another on its own behalf.
func (c Context) WithCaller(caller sdk.AccAddress) Context {
	c.caller = caller
	return c
}

// WithContext returns a copy of the context over a different parent.
func (c Context) WithContext(ctx context.Context) Context {
	c.baseCtx = ctx
	return c
}

// Enter marks resource as in use for the remainder of the call. A second
// Enter on the same resource before release fails with ErrReentrantCall.
func (c Context) Enter(resource string) (release func(), err error) {
	if _, busy := c.frame.guards[resource]; busy {
		return nil, ErrReentrantCall.Wrapf("resource %s is already in use by %s", resource, c.frame.operation)
	}
	c.frame.guards[resource] = struct{}{}
	return func() { delete(c.frame.guards, resource) }, nil
}

// UnwrapContext returns the transaction Context carried by ctx. It panics
// when ctx was not produced by an Executor.
func UnwrapContext(ctx context.Context) Context {
	c, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return c
}

// FromContext is the non-panicking form of UnwrapContext.
func FromContext(ctx context.Context) (Context, error) {
	if c, ok := ctx.(Context); ok {
		return c, nil
	}
	if c, ok := ctx.Value(contextKey{}).(Context); ok {
		return c, nil
	}
	return Context{}, ErrNoTransaction
}

// VerifySigner parses a bech32 message signer and checks that it is the
// caller the operation runs as.
func VerifySigner(ctx context.Context, signer string) (sdk.AccAddress, error) {
	addr, err := sdk.AccAddressFromBech32(signer)
	if err != nil {
		return nil, ErrInvalidCaller.Wrapf("invalid signer address: %s", err)
	}
	c, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !c.Caller().Equals(addr) {
		return nil, ErrInvalidCaller.Wrapf("message signed by %s but executed as %s", addr, c.Caller())
	}
	return addr, nil
}
