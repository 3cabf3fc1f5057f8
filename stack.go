package nest

import (
	"context"
	"fmt"
)

// StackOp identifies a change to a Pass's ancestor stack.
type StackOp string

const (
	// StackPush is reported after a node is pushed onto the stack.
	StackPush StackOp = "push"

	// StackPop is reported after a node is popped off the stack.
	StackPop StackOp = "pop"
)

// StackObserver is called after every change to a Pass's ancestor stack,
// with the node that was pushed or popped and the stack as it is after the
// change, bottom first.
type StackObserver func(op StackOp, node *Node, stack []*Node)

type stackKey struct{}

// ancestorStack holds the IDs of the components currently being processed
// in a Pass, innermost last. Slot markers never appear on it.
type ancestorStack struct {
	ids []NodeID
}

// stack returns the Pass's ancestor stack. The stack lives in the Pass's item
// bag and is created on first use; created reports whether this call created
// it.
func (p *Pass) stack() (stack *ancestorStack, created bool) {
	if s, ok := p.Item(stackKey{}).(*ancestorStack); ok {
		return s, false
	}
	s := &ancestorStack{}
	p.SetItem(stackKey{}, s)
	return s, true
}

// existingStack returns the Pass's ancestor stack without creating it. A Pass
// that hasn't started a component yet gets an empty stack.
func (p *Pass) existingStack() *ancestorStack {
	if s, ok := p.Item(stackKey{}).(*ancestorStack); ok {
		return s
	}
	return &ancestorStack{}
}

// top returns the ID of the innermost component still being processed, or
// NoNode if there isn't one.
func (p *Pass) top() NodeID {
	s := p.existingStack()
	if len(s.ids) < 1 {
		return NoNode
	}
	return s.ids[len(s.ids)-1]
}

func (p *Pass) push(ctx context.Context, node *Node) {
	s, _ := p.stack()
	s.ids = append(s.ids, node.id)
	p.pushes++
	logger(ctx).DebugContext(ctx, "pushed component", "pass", p.id, "node", node.id, "route", node.route, "depth", len(s.ids))
	p.observe(StackPush, node, s)
}

// pop removes node from the top of the stack. If node isn't on top, the
// stack is left alone and an error is returned.
func (p *Pass) pop(ctx context.Context, node *Node) error {
	s, _ := p.stack()
	if len(s.ids) < 1 {
		return fmt.Errorf("popping node %d (%s): stack is empty: %w", node.id, node.route, ErrStackImbalance)
	}
	if top := s.ids[len(s.ids)-1]; top != node.id {
		return fmt.Errorf("popping node %d (%s): node %d is on top: %w", node.id, node.route, top, ErrStackImbalance)
	}
	s.ids = s.ids[:len(s.ids)-1]
	p.pops++
	logger(ctx).DebugContext(ctx, "popped component", "pass", p.id, "node", node.id, "route", node.route, "depth", len(s.ids))
	p.observe(StackPop, node, s)
	return nil
}

func (p *Pass) observe(op StackOp, node *Node, s *ancestorStack) {
	if p.observer == nil {
		return
	}
	p.observer(op, node, p.nodesFor(s.ids))
}

func (p *Pass) nodesFor(ids []NodeID) []*Node {
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, p.node(id))
	}
	return nodes
}

// Ancestors returns the components currently being processed in the Pass,
// outermost first.
func (p *Pass) Ancestors() []*Node {
	s := p.existingStack()
	return p.nodesFor(s.ids)
}

// Balanced reports whether every component pushed onto the Pass's ancestor
// stack has been popped off again.
func (p *Pass) Balanced() bool {
	s := p.existingStack()
	return len(s.ids) == 0 && p.pushes == p.pops
}
