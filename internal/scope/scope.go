// Package scope tracks template block parameters during a resolution
// walk.
//
// Chains are persistent: Push returns a child frame and never mutates
// its parent, so sibling branches of a template (a block body and its
// else body, for example) can extend the same parent without seeing
// each other's names.
package scope

import "tir/internal/ast"

// Trust describes what may be invoked through a binding. The zero
// value trusts nothing, which is right for ordinary block parameters
// like the item of an each loop.
type Trust struct {
	// Invoke marks the binding itself as an invokable component.
	Invoke bool
	// Props marks individual properties as invokable, for bindings
	// that yield a bag of components such as form builders.
	Props map[string]bool
}

// For reports whether the path reached by following tail segments from
// the binding head may be invoked as a component.
func (t Trust) For(tail []string) bool {
	switch len(tail) {
	case 0:
		return t.Invoke
	case 1:
		return t.Props[tail[0]]
	default:
		return false
	}
}

// Binding is one in-scope name.
type Binding struct {
	Name string
	// Slot is the position of the name in the declaring `as |...|`
	// list.
	Slot int
	// Node is the block or element invocation that yielded the
	// binding. It is nil for synthetic bindings.
	Node ast.Node
	// Trust is computed from the yielding invocation's rules when the
	// binding is pushed.
	Trust Trust
}

// Chain is one frame of the scope chain. The nil *Chain is the valid
// empty chain.
type Chain struct {
	parent *Chain
	names  map[string]Binding
}

// Push returns a child frame containing the given bindings. Later
// bindings win within one frame; any binding shadows outer frames.
func (c *Chain) Push(bindings ...Binding) *Chain {
	names := make(map[string]Binding, len(bindings))
	for _, b := range bindings {
		names[b.Name] = b
	}
	return &Chain{parent: c, names: names}
}

// Resolve walks the chain from the innermost frame outward.
func (c *Chain) Resolve(name string) (Binding, bool) {
	for f := c; f != nil; f = f.parent {
		if b, ok := f.names[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// Has reports whether name is bound anywhere in the chain.
func (c *Chain) Has(name string) bool {
	_, ok := c.Resolve(name)
	return ok
}
