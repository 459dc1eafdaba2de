package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/gqlshape/internal/eventbus"
	events "github.com/hanpama/gqlshape/internal/events"
	genid "github.com/hanpama/gqlshape/internal/genid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("gqlshape")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer  trace.Tracer
	genSpan sync.Map // run id -> trace.Span
	opSpan  sync.Map // run id -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.GenerateStart) {
		rid, _ := genid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "codegen.document")
		span.SetAttributes(
			attribute.String("codegen.source", e.Source),
			attribute.Int("codegen.operations", e.Operations),
			attribute.Int("codegen.fragments", e.Fragments),
		)
		s.genSpan.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.GenerateFinish) {
		rid, _ := genid.FromContext(ctx)
		v, ok := s.genSpan.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.OperationStart) {
		rid, _ := genid.FromContext(ctx)
		parent := ctx
		if v, ok := s.genSpan.Load(rid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "codegen.operation")
		span.SetAttributes(
			attribute.String("graphql.operation.name", e.Name),
			attribute.String("graphql.operation.type", e.Kind),
		)
		s.opSpan.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.OperationFinish) {
		rid, _ := genid.FromContext(ctx)
		v, ok := s.opSpan.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})
}
