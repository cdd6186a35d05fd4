package txn

import (
	"context"
	"sort"
	"sync"
)

// Invariant checks a state property. It returns a description and whether
// the property is broken.
type Invariant func(ctx context.Context) (string, bool)

// InvariantRegistry collects module invariants.
type InvariantRegistry interface {
	RegisterRoute(moduleName, route string, invariant Invariant)
}

// InvariantRoute is a registered invariant.
type InvariantRoute struct {
	ModuleName string
	Route      string
	Invariant  Invariant
}

// FullRoute returns module/route.
func (r InvariantRoute) FullRoute() string { return r.ModuleName + "/" + r.Route }

// Invariants is an InvariantRegistry that can assert every route.
type Invariants struct {
	mu     sync.Mutex
	routes []InvariantRoute
}

var _ InvariantRegistry = (*Invariants)(nil)

func (ir *Invariants) RegisterRoute(moduleName, route string, invariant Invariant) {
	ir.mu.Lock()
	defer ir.mu.Unlock()
	ir.routes = append(ir.routes, InvariantRoute{ModuleName: moduleName, Route: route, Invariant: invariant})
	sort.SliceStable(ir.routes, func(i, j int) bool { return ir.routes[i].FullRoute() < ir.routes[j].FullRoute() })
}

// Routes returns the registered routes.
func (ir *Invariants) Routes() []InvariantRoute {
	ir.mu.Lock()
	defer ir.mu.Unlock()
	return append([]InvariantRoute(nil), ir.routes...)
}

// Check runs every invariant against a read-only view and returns the
// messages of the broken ones.
func (ir *Invariants) Check(ctx context.Context, e *Executor) ([]string, error) {
	var broken []string
	err := e.Query(ctx, func(c Context) error {
		for _, r := range ir.Routes() {
			if msg, isBroken := r.Invariant(c); isBroken {
				broken = append(broken, msg)
			}
		}
		return nil
	})
	return broken, err
}
