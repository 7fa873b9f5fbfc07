package mq

import (
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/storage/mq")

// tracingHooks is built per client so the hooks use the tracer provider and
// propagator installed by telemetry.InitTracer.
func tracingHooks() kgo.Opt {
	kt := kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
		kotel.TracerPropagator(otel.GetTextMapPropagator()),
	)
	return kgo.WithHooks(kotel.NewKotel(kotel.WithTracer(kt)).Hooks()...)
}
