package txn

import (
	"context"
	"fmt"
	"sync"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Msg is a state-changing request addressed to one module.
type Msg interface {
	Route() string
	Type() string
	ValidateBasic() error
	GetSigner() sdk.AccAddress
}

// Handler executes a message inside an operation and returns its response.
type Handler func(ctx context.Context, msg Msg) (any, error)

// FollowUp is a separate operation scheduled after a message failed. It
// commits on its own and never resurrects the failed message's writes.
type FollowUp struct {
	Operation string
	Caller    sdk.AccAddress
	Run       func(Context) error
}

// FailureHook inspects a failed message and may request a follow-up.
type FailureHook func(msg Msg, err error) (FollowUp, bool)

// Result is the outcome of a delivered message.
type Result struct {
	Response any
	Events   sdk.Events
}

// Router dispatches messages to module handlers, one executor operation
// per message.
type Router struct {
	mu       sync.RWMutex
	executor *Executor
	handlers map[string]Handler
	hooks    []FailureHook
}

// NewRouter creates a router bound to executor.
func NewRouter(executor *Executor) *Router {
	return &Router{
		executor: executor,
		handlers: make(map[string]Handler),
	}
}

// AddRoute registers the handler for a module route. It panics on a
// duplicate route.
func (r *Router) AddRoute(route string, h Handler) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[route]; exists {
		panic(fmt.Sprintf("route %s already registered", route))
	}
	r.handlers[route] = h
	return r
}

// AddFailureHook registers a hook consulted after any message fails.
func (r *Router) AddFailureHook(h FailureHook) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
	return r
}

// Deliver validates msg, then runs its handler as a single atomic
// operation on behalf of the message signer.
func (r *Router) Deliver(ctx context.Context, msg Msg) (Result, error) {
	if err := msg.ValidateBasic(); err != nil {
		return Result{}, err
	}

	r.mu.RLock()
	handler, ok := r.handlers[msg.Route()]
	hooks := r.hooks
	r.mu.RUnlock()
	if !ok {
		return Result{}, errorsmod.Wrapf(ErrUnknownRoute, "%s", msg.Route())
	}

	operation := msg.Route() + "/" + msg.Type()
	var resp any
	events, err := r.executor.Execute(ctx, msg.GetSigner(), operation, func(c Context) error {
		var herr error
		resp, herr = handler(c, msg)
		return herr
	})
	if err == nil {
		return Result{Response: resp, Events: events}, nil
	}

	for _, hook := range hooks {
		follow, ok := hook(msg, err)
		if !ok {
			continue
		}
		if _, ferr := r.executor.Execute(ctx, follow.Caller, follow.Operation, follow.Run); ferr != nil {
			r.executor.logger.Error("follow-up operation failed",
				"operation", follow.Operation,
				"error", ferr,
			)
		}
	}
	return Result{}, err
}
