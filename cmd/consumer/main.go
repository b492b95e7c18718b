package main

import (
	"go-hrms/internal/app"
	"go-hrms/internal/config"
	"go-hrms/internal/logger"
	"go-hrms/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.MustInit(cfg)
	defer log.Sync()

	apperror.Init()

	infra, err := app.Connect(cfg, log)
	if err != nil {
		log.Fatal("connect infrastructure failed", zap.Error(err))
	}
	defer infra.Close()

	if err := app.RunConsumer(infra); err != nil {
		log.Fatal("run consumer failed", zap.Error(err))
	}
}
