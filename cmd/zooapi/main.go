package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/rueidis"
	"golang.org/x/sync/errgroup"

	zoo "github.com/rezairanshahi021/zoo-challenge"
	"github.com/rezairanshahi021/zoo-challenge/zoohttp"
	"github.com/rezairanshahi021/zoo-challenge/zoootel"
	"github.com/rezairanshahi021/zoo-challenge/zooredis"
)

type config struct {
	ListenPort      string        `envconfig:"PORT" default:"8080"`
	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	RedisKeyPrefix  string        `envconfig:"REDIS_KEY_PREFIX" default:"zoo:"`
	PlaceMaxRetries int           `envconfig:"PLACE_MAX_RETRIES" default:"4"`
	PlaceBackoff    time.Duration `envconfig:"PLACE_BACKOFF" default:"100ms"`
}

func main() {
	var conf config
	envconfig.MustProcess("ZOO", &conf)
	slog.Info(fmt.Sprintf("starting zoo API server with config: %+v", conf))

	ctx, shutdown := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer shutdown()

	redis, err := newRedisClient(&conf)
	if err != nil {
		log.Fatalf("failed to create redis client: %v", err)
	}
	store := zooredis.NewStore(conf.RedisKeyPrefix, redis)
	engine := zoo.NewPlacementEngine(store).WithRetryPolicy(conf.PlaceMaxRetries, conf.PlaceBackoff)
	placer, err := zoootel.NewPlacer(engine)
	if err != nil {
		log.Fatalf("failed to create placer: %v", err)
	}
	router := zoohttp.NewRouter(zoohttp.Services{
		Animals:    zoo.NewAnimalManager(store),
		Rooms:      zoo.NewRoomManager(store),
		Placer:     placer,
		Favourites: zoo.NewFavouriteRegister(store),
		Reporter:   zoo.NewReporter(store),
	})

	addr := fmt.Sprintf(":%s", conf.ListenPort)
	server := &http.Server{Addr: addr, Handler: router}

	eg := &errgroup.Group{}
	eg.Go(func() error {
		slog.Info(fmt.Sprintf("server listening on %s...", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	<-ctx.Done()
	slog.Info("shutting down server...")
	if err := server.Shutdown(context.Background()); err != nil {
		err := fmt.Errorf("failed to shutdown server: %w", err)
		slog.Error(err.Error(), "error", err)
	}
	if err := eg.Wait(); err != nil {
		slog.Error(err.Error(), "error", err)
	}
}

func newRedisClient(conf *config) (rueidis.Client, error) {
	redisConf := rueidis.ClientOption{
		InitAddress:  []string{conf.RedisAddr},
		DisableCache: true,
	}
	if conf.RedisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to run miniredis: %w", err)
		}
		slog.Info(fmt.Sprintf("no redis address configured, using in-process miniredis at %s", mr.Addr()))
		redisConf.InitAddress = []string{mr.Addr()}
	}
	return rueidis.NewClient(redisConf)
}
