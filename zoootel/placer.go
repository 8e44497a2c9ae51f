// Package zoootel decorates zoo services with OpenTelemetry metrics.
package zoootel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	zoo "github.com/rezairanshahi021/zoo-challenge"
)

const (
	placementOpKey     = attribute.Key("op")
	placementStatusKey = attribute.Key("status")
)

var (
	placementOpPlace  = placementOpKey.String("place")
	placementOpRemove = placementOpKey.String("remove")

	placementStatusOK       = placementStatusKey.String("ok")
	placementStatusConflict = placementStatusKey.String("conflict")
	placementStatusFull     = placementStatusKey.String("full")
	placementStatusMismatch = placementStatusKey.String("mismatch")
	placementStatusNotFound = placementStatusKey.String("not_found")
	placementStatusError    = placementStatusKey.String("error")
)

type placer struct {
	inner            zoo.Placer
	meterProvider    metric.MeterProvider
	placementCount   metric.Int64Counter
	placementLatency metric.Float64Histogram
}

// NewPlacer wraps a Placer so every Place/Remove call is counted and
// timed, labelled with the operation and its outcome.
func NewPlacer(inner zoo.Placer) (zoo.Placer, error) {
	meterProvider := otel.GetMeterProvider()
	meter := meterProvider.Meter(scopeName)
	placementCount, err := meter.Int64Counter("zoo.placement.count_total")
	if err != nil {
		return nil, err
	}
	placementLatency, err := meter.Float64Histogram("zoo.placement_latency_seconds",
		metric.WithUnit("s"), metric.WithExplicitBucketBoundaries(latencyHistogramBuckets...))
	if err != nil {
		return nil, err
	}
	return &placer{
		inner:            inner,
		meterProvider:    meterProvider,
		placementCount:   placementCount,
		placementLatency: placementLatency,
	}, nil
}

func (p *placer) Place(ctx context.Context, animalID, roomID string) (*zoo.Animal, error) {
	return p.observe(ctx, placementOpPlace, func() (*zoo.Animal, error) {
		return p.inner.Place(ctx, animalID, roomID)
	})
}

func (p *placer) Remove(ctx context.Context, animalID string) (*zoo.Animal, error) {
	return p.observe(ctx, placementOpRemove, func() (*zoo.Animal, error) {
		return p.inner.Remove(ctx, animalID)
	})
}

func (p *placer) observe(ctx context.Context, opAttr attribute.KeyValue, call func() (*zoo.Animal, error)) (*zoo.Animal, error) {
	statusAttr := placementStatusOK
	start := time.Now()
	defer func() {
		p.placementCount.Add(ctx, 1, metric.WithAttributes(opAttr, statusAttr))
		p.placementLatency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(opAttr, statusAttr))
	}()
	animal, err := call()
	if err != nil {
		statusAttr = statusForError(err)
		return nil, err
	}
	return animal, nil
}

func statusForError(err error) attribute.KeyValue {
	switch {
	case zoo.ErrorHasCode(err, zoo.CodeConcurrency):
		return placementStatusConflict
	case zoo.ErrorHasCode(err, zoo.CodeRoomFull):
		return placementStatusFull
	case zoo.ErrorHasCode(err, zoo.CodeCategoryMismatch):
		return placementStatusMismatch
	case zoo.ErrorHasCode(err, zoo.CodeAnimalNotFound), zoo.ErrorHasCode(err, zoo.CodeRoomNotFound):
		return placementStatusNotFound
	default:
		return placementStatusError
	}
}
