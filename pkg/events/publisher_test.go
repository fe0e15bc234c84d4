package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestNopPublisher(t *testing.T) {
	id, err := NopPublisher{}.Publish(context.Background(), "waitlist.signup", map[string]string{"a": "b"})
	assert.NoError(t, err)
	assert.Empty(t, id)
	assert.NoError(t, NopPublisher{}.Close())
}

func TestNewPubSubPublisher_RequiresTopic(t *testing.T) {
	_, err := NewPubSubPublisher(context.Background(), "proj", "")
	assert.Error(t, err)
}

func TestAttributeCarrier_CarriesTraceContext(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	carrier := &attributeCarrier{attrs: map[string]string{}}
	propagation.TraceContext{}.Inject(ctx, carrier)

	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", carrier.Get("traceparent"))
	assert.Contains(t, carrier.Keys(), "traceparent")

	extracted := trace.SpanContextFromContext(propagation.TraceContext{}.Extract(context.Background(), carrier))
	assert.Equal(t, traceID, extracted.TraceID())
}
