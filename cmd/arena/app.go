package main

import (
	"context"
	"os"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/arena/internal/combat"
	"github.com/KirkDiggler/arena/internal/orchestrators/arena"
	"github.com/KirkDiggler/arena/internal/pkg/clock"
	"github.com/KirkDiggler/arena/internal/pkg/idgen"
	"github.com/KirkDiggler/arena/internal/pkg/logger"
	"github.com/KirkDiggler/arena/internal/redis"
	"github.com/KirkDiggler/arena/internal/repositories/battles"
)

const pingTimeout = 2 * time.Second

// app holds what every command needs
type app struct {
	service arena.Service
	log     *logrus.Logger
	close   func()
}

// newApp wires the orchestrator from the viper configuration. Battle records
// go to redis when an address is configured and reachable, otherwise they
// are kept in memory for the life of the process.
func newApp(ctx context.Context) (*app, error) {
	log := logger.New(logger.Config{
		Level:  viper.GetString("log_level"),
		Format: viper.GetString("log_format"),
		Output: os.Stderr,
	})

	repo, closeRepo := newRepository(ctx, log)

	var roller dice.Roller
	if seed := viper.GetInt64("seed"); seed != 0 {
		roller = combat.NewSeededRoller(seed)
		log.WithField("seed", seed).Debug("Using seeded roller")
	}

	service, err := arena.NewOrchestrator(&arena.Config{
		Repository:   repo,
		BattleIDs:    idgen.NewUUID("battle"),
		CombatantIDs: idgen.NewRandomNumber(idgen.DefaultNumberCeiling),
		Clock:        clock.New(),
		Roller:       roller,
		Logger:       log,
	})
	if err != nil {
		closeRepo()
		return nil, err
	}

	return &app{service: service, log: log, close: closeRepo}, nil
}

func newRepository(ctx context.Context, log *logrus.Logger) (battles.Repository, func()) {
	noop := func() {}

	addr := viper.GetString("redis_addr")
	if addr == "" {
		log.Debug("No redis address configured, keeping battle records in memory")
		return battles.NewInMemory(), noop
	}

	entry := log.WithField("redis_addr", addr)

	client, err := redis.NewClient(addr, &redis.Options{
		Password: viper.GetString("redis_password"),
		DB:       viper.GetInt("redis_db"),
	})
	if err != nil {
		entry.WithError(err).Warn("Invalid redis settings, keeping battle records in memory")
		return battles.NewInMemory(), noop
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := redis.Ping(pingCtx, client); err != nil {
		_ = client.Close()
		entry.WithError(err).Warn("Redis unavailable, keeping battle records in memory")
		return battles.NewInMemory(), noop
	}

	repo, err := battles.NewRedis(&battles.RedisConfig{Client: client})
	if err != nil {
		_ = client.Close()
		entry.WithError(err).Warn("Could not create redis repository, keeping battle records in memory")
		return battles.NewInMemory(), noop
	}

	entry.Info("Recording battles in redis")
	return repo, func() { _ = client.Close() }
}
