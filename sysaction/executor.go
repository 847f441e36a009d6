package sysaction

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/tos-network/gvest/checkpoint"
)

// Context carries information available to a system-action handler.
type Context struct {
	From    common.Address
	Index   uint64
	StateDB vm.StateDB
	Ledger  *checkpoint.Ledger // optional; handlers fall back to an uncached ledger
}

// Handler is implemented by sub-systems that execute actions.
type Handler interface {
	CanHandle(kind ActionKind) bool
	Handle(ctx *Context, sa *SysAction) (*Receipt, error)
}

// Registry holds registered handlers.
type Registry struct{ handlers []Handler }

// DefaultRegistry is the process-wide handler registry.
var DefaultRegistry = &Registry{}

// Register adds a handler to the registry.
func (r *Registry) Register(h Handler) { r.handlers = append(r.handlers, h) }

// Execute decodes data and dispatches it to the first handler accepting its
// kind.
func (r *Registry) Execute(ctx *Context, data []byte) (*Receipt, error) {
	sa, err := Decode(data)
	if err != nil {
		return nil, err
	}
	for _, h := range r.handlers {
		if h.CanHandle(sa.Action) {
			return h.Handle(ctx, sa)
		}
	}
	return nil, fmt.Errorf("unknown system action: %q", sa.Action)
}

// Execute dispatches data through DefaultRegistry.
func Execute(ctx *Context, data []byte) (*Receipt, error) {
	return DefaultRegistry.Execute(ctx, data)
}
