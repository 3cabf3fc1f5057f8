package nest

import (
	"context"
	"fmt"
	"html/template"
	"strings"
)

// Kind distinguishes components, which render their own template, from slot
// markers, which route their content into an enclosing component's slots.
type Kind int

const (
	// KindComponent is a regular component with its own template.
	KindComponent Kind = iota

	// KindSlotMarker is a slot marker. It renders nothing itself, and is
	// never pushed onto the ancestor stack.
	KindSlotMarker
)

func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindSlotMarker:
		return "slot"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is where a Node is in its lifecycle. Nodes start Created, become
// Initialized once their ancestry is known, and end either Processed or
// Failed.
type State int

const (
	StateCreated State = iota
	StateInitialized
	StateProcessed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateProcessed:
		return "processed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// NodeID identifies a Node within its Pass.
type NodeID int

// NoNode is the NodeID of the parent of a root component.
const NoNode NodeID = -1

// Node is one occurrence of an Element in a Pass. It's the view-model
// passed to the component's template, so its exported methods are what
// templates use to read parameters, default content, and slots.
type Node struct {
	id        NodeID
	pass      *Pass
	kind      Kind
	component any
	route     string
	slotName  string
	children  Fragment
	parent    NodeID
	pushed    bool
	state     State
	slots     slotStore
}

// ID returns the Node's identifier within its Pass.
func (n *Node) ID() NodeID {
	return n.id
}

// Kind returns whether the Node is a component or a slot marker.
func (n *Node) Kind() Kind {
	return n.kind
}

// State returns where the Node is in its lifecycle.
func (n *Node) State() State {
	return n.state
}

// Component returns the behavior object the Node was created for. For slot
// markers, it's nil.
func (n *Node) Component() any {
	return n.component
}

// ComponentName returns the type name of the Node's behavior object, for
// diagnostics.
func (n *Node) ComponentName() string {
	if n.kind == KindSlotMarker {
		return fmt.Sprintf("slot %q", n.slotName)
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", n.component), "*")
}

// Route returns the template route the Node renders.
func (n *Node) Route() string {
	return n.route
}

// SlotName returns the name of the slot a slot marker writes to. It's empty
// for components.
func (n *Node) SlotName() string {
	return n.slotName
}

// Pass returns the Pass the Node belongs to.
func (n *Node) Pass() *Pass {
	return n.pass
}

// Parent returns the nearest component that enclosed this one when it was
// initialized, or nil for the root component. The Node doesn't hold on to
// its parent; it's looked up in the Pass.
func (n *Node) Parent() *Node {
	if n.pass == nil || n.parent == NoNode {
		return nil
	}
	return n.pass.node(n.parent)
}

// ParentID returns the ID of the Node's parent, or NoNode.
func (n *Node) ParentID() NodeID {
	return n.parent
}

// Render renders content as part of the Node's Pass, with the Node still on
// the ancestor stack, so components within content see it as their parent.
// Templates use it to render Content passed in as a parameter.
func (n *Node) Render(content Content) (template.HTML, error) {
	if n.pass == nil {
		return "", fmt.Errorf("rendering content in %s: %w", n.ComponentName(), ErrMissingRenderContext)
	}
	if content == nil {
		return "", nil
	}
	var buf strings.Builder
	err := content.WriteContent(n.pass.ctx, n.pass, &buf)
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil // #nosec G203
}

// init establishes the Node's ancestry. The parent is whatever component is
// on top of the stack; components then push themselves so their children
// see them as the parent. It must run exactly once, before process.
func (n *Node) init(ctx context.Context) error {
	if n.state != StateCreated {
		return fmt.Errorf("initializing %s in state %s: %w", n.ComponentName(), n.state, ErrLifecycle)
	}
	if _, created := n.pass.stack(); created {
		n.parent = NoNode
	} else {
		n.parent = n.pass.top()
	}
	if n.kind != KindSlotMarker {
		n.pass.push(ctx, n)
		n.pushed = true
	}
	n.pass.collectResources(ctx, n)
	n.state = StateInitialized
	return nil
}

// process captures the Node's children and then either writes them into the
// enclosing component's slot or renders the Node's own template.
func (n *Node) process(ctx context.Context) (out template.HTML, err error) {
	if n.state != StateInitialized {
		return "", fmt.Errorf("processing %s in state %s: %w", n.ComponentName(), n.state, ErrLifecycle)
	}
	defer func() {
		if n.pushed {
			if popErr := n.pass.pop(ctx, n); popErr != nil && err == nil {
				err = popErr
			}
			n.pushed = false
		}
		if err != nil {
			n.state = StateFailed
			return
		}
		n.state = StateProcessed
	}()

	if err := n.capture(ctx); err != nil {
		return "", err
	}

	if n.kind == KindSlotMarker {
		return "", n.fillSlot(ctx)
	}
	return n.pass.renderNode(ctx, n)
}

// capture renders the Node's children into its default content. It only
// ever happens once per Node.
func (n *Node) capture(ctx context.Context) error {
	if n.slots.captured {
		return nil
	}
	var buf strings.Builder
	if err := n.children.WriteContent(ctx, n.pass, &buf); err != nil {
		return err
	}
	n.slots.setDefault(template.HTML(buf.String())) // #nosec G203
	return nil
}

// fillSlot writes a slot marker's content into the slots of the component
// on top of the stack.
func (n *Node) fillSlot(ctx context.Context) error {
	if n.slotName == "" {
		return ErrSlotNameRequired
	}
	targetID := n.pass.top()
	if targetID == NoNode {
		return fmt.Errorf("filling slot %q: %w", n.slotName, ErrOrphanSlot)
	}
	target := n.pass.node(targetID)
	replaced := target.slots.set(n.slotName, n.slots.defaultContent)
	logger(ctx).DebugContext(ctx, "filled slot", "pass", n.pass.id, "slot", n.slotName, "target", target.id, "route", target.route, "replaced", replaced)
	return nil
}
