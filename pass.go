package nest

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "impractical.co/nest"

// Pass is a single render of a markup tree. It owns all the state that
// rendering needs: the ancestor stack, the Nodes created for each Element,
// and any per-pass items components want to share. Nothing in a Pass is
// shared with other Passes, so concurrent renders are isolated from each
// other.
//
// A Pass is used by one goroutine at a time and renders once.
type Pass struct {
	id       string
	ctx      context.Context
	host     Host
	resolver RouteResolver
	items    map[any]any
	nodes    []*Node
	pushes   int
	pops     int
	rendered bool

	observer StackObserver
	tracer   trace.Tracer
	metrics  *Metrics

	resources resources
}

// Option configures a Pass.
type Option func(*Pass)

// WithRouteResolver sets the RouteResolver used to find the templates of
// components that don't choose their own.
func WithRouteResolver(resolver RouteResolver) Option {
	return func(p *Pass) {
		p.resolver = resolver
	}
}

// WithTracer sets the tracer used for the Pass's spans. The global
// OpenTelemetry tracer provider is used by default.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pass) {
		p.tracer = tracer
	}
}

// WithMetrics records the Pass's renders in m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pass) {
		p.metrics = m
	}
}

// WithStackObserver calls observer every time the Pass's ancestor stack
// changes.
func WithStackObserver(observer StackObserver) Option {
	return func(p *Pass) {
		p.observer = observer
	}
}

// NewPass returns a Pass that renders components using host.
func NewPass(host Host, opts ...Option) *Pass {
	p := &Pass{
		id:    uuid.NewString(),
		ctx:   context.Background(),
		host:  host,
		items: map[any]any{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tracer == nil {
		p.tracer = otel.Tracer(tracerName)
	}
	return p
}

// Render renders content in a new Pass and writes the result to out. If
// anything fails, nothing is written and the error is returned.
func Render(ctx context.Context, out io.Writer, host Host, content Content, opts ...Option) error {
	return NewPass(host, opts...).Render(ctx, out, content)
}

// Render renders content and writes the result to out. If anything fails,
// nothing is written and the error is returned.
func (p *Pass) Render(ctx context.Context, out io.Writer, content Content) (err error) {
	if p.host == nil {
		return fmt.Errorf("rendering pass %s without a host: %w", p.id, ErrMissingRenderContext)
	}
	if p.rendered {
		return fmt.Errorf("pass %s has already rendered: %w", p.id, ErrLifecycle)
	}
	p.rendered = true

	ctx, span := p.tracer.Start(ContextWithPass(ctx, p), "nest.pass",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("nest.pass.id", p.id)),
	)
	defer span.End()
	p.ctx = ctx

	start := time.Now()
	defer func() {
		p.metrics.observePass(time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		span.SetAttributes(attribute.Int("nest.pass.nodes", len(p.nodes)))
		span.SetStatus(codes.Ok, "")
	}()

	var buf bytes.Buffer
	if content != nil {
		err = content.WriteContent(ctx, p, &buf)
		if err != nil {
			return fmt.Errorf("rendering pass %s: %w", p.id, err)
		}
	}
	if !p.Balanced() {
		return fmt.Errorf("pass %s finished with %d pushes and %d pops: %w", p.id, p.pushes, p.pops, ErrStackImbalance)
	}
	_, err = buf.WriteTo(out)
	if err != nil {
		return fmt.Errorf("writing output of pass %s: %w", p.id, err)
	}
	return nil
}

// ID returns the Pass's unique identifier.
func (p *Pass) ID() string {
	return p.id
}

// Item returns the per-pass value stored under key, or nil.
func (p *Pass) Item(key any) any {
	return p.items[key]
}

// SetItem stores a per-pass value under key. Keys should be unexported
// types, like context keys, to avoid collisions.
func (p *Pass) SetItem(key, value any) {
	p.items[key] = value
}

// Nodes returns every Node the Pass has created, in the order they were
// created.
func (p *Pass) Nodes() []*Node {
	return append([]*Node(nil), p.nodes...)
}

func (p *Pass) node(id NodeID) *Node {
	if id < 0 || int(id) >= len(p.nodes) {
		return nil
	}
	return p.nodes[id]
}

func (p *Pass) newNode(e *Element) (*Node, error) {
	route := e.route
	if route == "" && e.kind == KindComponent {
		var err error
		route, err = p.resolver.Route(e.component)
		if err != nil {
			return nil, &RenderError{
				Component: fmt.Sprintf("%T", e.component),
				NotFound:  true,
				Err:       err,
			}
		}
	}
	n := &Node{
		id:        NodeID(len(p.nodes)),
		pass:      p,
		kind:      e.kind,
		component: e.component,
		route:     route,
		slotName:  e.slot,
		children:  e.children,
		parent:    NoNode,
	}
	p.nodes = append(p.nodes, n)
	return n, nil
}

// renderElement creates a Node for e, takes it through its lifecycle, and
// writes its output to w.
func (p *Pass) renderElement(ctx context.Context, e *Element, w io.Writer) error {
	n, err := p.newNode(e)
	if err != nil {
		return err
	}
	err = n.init(ctx)
	if err != nil {
		return err
	}
	out, err := n.process(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, string(out))
	return err
}

// renderNode asks the Host to render n's template with n as the view-model.
func (p *Pass) renderNode(ctx context.Context, n *Node) (template.HTML, error) {
	ctx, span := p.tracer.Start(ctx, "nest.render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("nest.pass.id", p.id),
			attribute.Int("nest.node.id", int(n.id)),
			attribute.String("nest.node.route", n.route),
			attribute.String("nest.node.component", n.ComponentName()),
		),
	)
	defer span.End()

	prev := p.ctx
	p.ctx = ctx
	defer func() { p.ctx = prev }()

	start := time.Now()
	out, err := p.host.Render(ctx, n.route, n)
	if err != nil {
		err = translateHostError(n, err)
	}
	p.metrics.observeRender(n, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetStatus(codes.Ok, "")
	return out, nil
}

type passCtxKey struct{}

// ContextWithPass returns a copy of ctx that carries pass.
func ContextWithPass(ctx context.Context, pass *Pass) context.Context {
	return context.WithValue(ctx, passCtxKey{}, pass)
}

// PassFromContext returns the Pass carried by ctx. Hosts are always called
// with a context carrying the Pass being rendered.
func PassFromContext(ctx context.Context) (*Pass, error) {
	pass, ok := ctx.Value(passCtxKey{}).(*Pass)
	if !ok || pass == nil {
		return nil, ErrMissingRenderContext
	}
	return pass, nil
}
