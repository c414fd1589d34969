package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceIDEmptyForInvalidContext(t *testing.T) {
	assert.Empty(t, TraceID(trace.SpanContext{}))
}

func TestTraceIDFormatsValidContext(t *testing.T) {
	tid, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)
	sid, err := trace.SpanIDFromHex("b7ad6b7169203331")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: tid, SpanID: sid})
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", TraceID(sc))
}
