package nest_test

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"impractical.co/nest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) attribute.Value {
	for _, attr := range span.Attributes() {
		if attr.Key == key {
			return attr.Value
		}
	}
	return attribute.Value{}
}

func TestTracing(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	pass := nest.NewPass(boxHost(), nest.WithTracer(provider.Tracer("test")))
	page := nest.El(box{Name: "a"}, nest.El(box{Name: "b"}))
	require.NoError(t, pass.Render(context.Background(), &bytes.Buffer{}, page))

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	// spans end innermost first
	assert.Equal(t, "nest.render", spans[0].Name())
	assert.Equal(t, "b", spanAttr(spans[0], "nest.node.route").AsString())
	assert.Equal(t, "nest.render", spans[1].Name())
	assert.Equal(t, "a", spanAttr(spans[1], "nest.node.route").AsString())
	assert.Equal(t, "nest.pass", spans[2].Name())
	assert.Equal(t, pass.ID(), spanAttr(spans[2], "nest.pass.id").AsString())
	assert.Equal(t, int64(2), spanAttr(spans[2], "nest.pass.nodes").AsInt64())

	// b was processed while a's children were captured, before a's render
	// span started, so both render spans are children of the pass span
	passID := spans[2].SpanContext().SpanID()
	assert.Equal(t, passID, spans[0].Parent().SpanID())
	assert.Equal(t, passID, spans[1].Parent().SpanID())
	for _, span := range spans {
		assert.Equal(t, codes.Ok, span.Status().Code)
	}
}

func TestTracingNestedRender(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	page := nest.El(box{Name: "outer", Inner: nest.El(box{Name: "inner"})})
	require.NoError(t, nest.Render(context.Background(), &bytes.Buffer{}, boxHost(), page, nest.WithTracer(provider.Tracer("test"))))

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	// inner is rendered by outer's template, so its span is outer's child
	assert.Equal(t, "inner", spanAttr(spans[0], "nest.node.route").AsString())
	assert.Equal(t, "outer", spanAttr(spans[1], "nest.node.route").AsString())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestTracingErrors(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	host := nest.HostFunc(func(context.Context, string, *nest.Node) (template.HTML, error) {
		return "", errors.New("boom")
	})
	err := nest.Render(context.Background(), &bytes.Buffer{}, host, nest.El(box{Name: "a"}), nest.WithTracer(provider.Tracer("test")))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		assert.Equal(t, codes.Error, span.Status().Code, span.Name())
		require.NotEmpty(t, span.Events(), span.Name())
		assert.Equal(t, "exception", span.Events()[0].Name)
	}
}
