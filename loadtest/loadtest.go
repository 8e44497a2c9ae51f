package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/rueidis"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"

	zoo "github.com/rezairanshahi021/zoo-challenge"
	"github.com/rezairanshahi021/zoo-challenge/zoootel"
	"github.com/rezairanshahi021/zoo-challenge/zooredis"
)

const (
	serviceName = "zoo_loadtest"
	roomCount   = 10
	animalCount = 200
)

// Hammers a small set of rooms with placements and removals so the
// retry path and conflict metrics are continuously exercised.
func main() {
	ctx, shutdown := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer shutdown()

	otelRes, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		err := fmt.Errorf("failed to create otel resource: %w", err)
		slog.Error(err.Error(), "error", err)
		os.Exit(1)
	}
	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL("http://localhost:4317"))
	if err != nil {
		err := fmt.Errorf("failed to create OTLP metric exporter: %w", err)
		slog.Error(err.Error(), "error", err)
		os.Exit(1)
	}
	defer exporter.Shutdown(context.Background())
	otel.SetMeterProvider(metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(10*time.Second))),
		metric.WithResource(otelRes),
	))

	redisClient, err := rueidis.NewClient(rueidis.ClientOption{InitAddress: []string{"127.0.0.1:6379"}, DisableCache: true})
	if err != nil {
		err := fmt.Errorf("failed to create redis client: %w", err)
		slog.Error(err.Error(), "error", err)
		os.Exit(1)
	}
	store := zooredis.NewStore("zooloadtest:", redisClient)
	placer, err := zoootel.NewPlacer(zoo.NewPlacementEngine(store))
	if err != nil {
		err := fmt.Errorf("failed to create placer: %w", err)
		slog.Error(err.Error(), "error", err)
		os.Exit(1)
	}

	var roomIDs []string
	for i := range roomCount {
		room, err := store.CreateRoom(ctx, &zoo.Room{Title: fmt.Sprintf("room-%d-%d", time.Now().Unix(), i), Capacity: 100})
		if err != nil {
			err := fmt.Errorf("failed to create room: %w", err)
			slog.Error(err.Error(), "error", err)
			return
		}
		roomIDs = append(roomIDs, room.ID)
	}
	var animalIDs []string
	for i := range animalCount {
		animal, err := store.CreateAnimal(ctx, &zoo.Animal{
			Title:    fmt.Sprintf("animal-%d", i),
			Volume:   float64(1 + rand.IntN(10)),
			Category: zoo.CategoryWild,
			Located:  time.Now().UTC(),
		})
		if err != nil {
			err := fmt.Errorf("failed to create animal: %w", err)
			slog.Error(err.Error(), "error", err)
			return
		}
		animalIDs = append(animalIDs, animal.ID)
	}

	slog.Info("zoo loadtest is running...")

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	occupancy := time.NewTicker(10 * time.Second)
	defer occupancy.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down...")
			return
		case <-occupancy.C:
			var used, capacity float64
			for _, roomID := range roomIDs {
				room, err := store.GetRoom(ctx, roomID)
				if err != nil {
					continue
				}
				used += room.UsedVolume
				capacity += room.Capacity
			}
			slog.Info(fmt.Sprintf("occupancy: %.0f/%.0f across %d rooms", used, capacity, len(roomIDs)))
		case <-ticker.C:
			animalID := animalIDs[rand.IntN(len(animalIDs))]
			roomID := roomIDs[rand.IntN(len(roomIDs))]
			if _, err := placer.Place(ctx, animalID, roomID); err != nil {
				if zoo.ErrorHasCode(err, zoo.CodeRoomFull) || zoo.ErrorHasCode(err, zoo.CodeCategoryMismatch) || errors.Is(err, zoo.ErrAnimalStillPlaced) {
					if _, err := placer.Remove(ctx, animalID); err != nil && !zoo.ErrorHasCode(err, zoo.CodeAnimalNotPlaced) {
						slog.Error(fmt.Sprintf("failed to remove animal: %v", err), "error", err)
					}
					continue
				}
				slog.Error(fmt.Sprintf("failed to place animal: %v", err), "error", err)
				time.Sleep(100 * time.Millisecond)
			}
		}
	}
}
