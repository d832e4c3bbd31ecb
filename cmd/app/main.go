package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/devpro_studio/Flargd/names"
	"gitlab.com/devpro_studio/Flargd/src/controller/HealthGRPC"
	"gitlab.com/devpro_studio/Flargd/src/controller/PublicHTTP"
	"gitlab.com/devpro_studio/Flargd/src/repository/FlagRepository"
	"gitlab.com/devpro_studio/Flargd/src/repository/StatsRepository"
	"gitlab.com/devpro_studio/Flargd/src/service/FlagService"
	"gitlab.com/devpro_studio/Flargd/src/service/StatsService"
	"gitlab.com/devpro_studio/Paranoia/paranoia"
	"gitlab.com/devpro_studio/Paranoia/paranoia/interfaces"
	"gitlab.com/devpro_studio/Paranoia/pkg/cache/memory"
	"gitlab.com/devpro_studio/Paranoia/pkg/cache/redis"
	"gitlab.com/devpro_studio/Paranoia/pkg/database/postgres"
	sentry_log "gitlab.com/devpro_studio/Paranoia/pkg/logger/sentry_log"
	std_log "gitlab.com/devpro_studio/Paranoia/pkg/logger/std_log"
	"gitlab.com/devpro_studio/Paranoia/pkg/server/grpc"
	httpSrv "gitlab.com/devpro_studio/Paranoia/pkg/server/http"
)

func main() {
	s := paranoia.New("flargd", "cfg.yaml")

	cfg := s.GetConfig()

	if len(cfg.GetConfigItem(interfaces.PkgLogger, "sentry")) > 0 {
		s.PushPkg(sentry_log.New("sentry"))
	}

	if len(cfg.GetConfigItem(interfaces.PkgLogger, "std")) > 0 {
		s.PushPkg(std_log.New("std"))
	}

	s.PushPkg(redis.New(names.CacheRedis)).
		PushPkg(memory.New(names.CacheMemory))

	if len(cfg.GetConfigItem(interfaces.PkgDatabase, names.DatabasePrimary)) > 0 {
		s.PushPkg(postgres.New(names.DatabasePrimary))
	}

	s.PushPkg(httpSrv.New(names.HttpServer)).
		PushPkg(grpc.New(names.GrpcServer)).
		PushModule(FlagRepository.New(names.FlagRepository)).
		PushModule(StatsRepository.New(names.StatsRepository)).
		PushModule(StatsService.New(names.StatsService)).
		PushModule(FlagService.New(names.FlagService)).
		PushModule(PublicHTTP.New(names.PublicController)).
		PushModule(HealthGRPC.NewController(names.HealthController))

	err := s.Init()
	if err != nil {
		panic(err)
	}
	defer s.Stop()

	s.GetLogger().Info(context.Background(), "start flargd service")

	// Wait for syscall stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
}
