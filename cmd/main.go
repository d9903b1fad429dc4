package main

import (
	"context"

	"nutrilog/config"
	"nutrilog/logger"
	"nutrilog/routes"
	"nutrilog/services"
	"nutrilog/utils"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.L()

	ctx := context.Background()
	db, err := config.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer db.Close()

	deps := routes.Deps{
		Meals:     services.NewMealService(db, log.Named("meals")),
		Foods:     services.NewFoodService(db, log.Named("foods")),
		Users:     services.NewUserService(db, log.Named("users")),
		RT:        services.NewRealtimeHub(),
		JWTSecret: cfg.JWTSecret,
		DevTokens: cfg.Env != "production",
	}

	if cfg.S3Bucket != "" {
		up, err := utils.NewS3ImageUploader(ctx, cfg.S3Region, cfg.S3Bucket, cfg.CloudFrontURL)
		if err != nil {
			log.Fatal("failed to init S3", zap.Error(err))
		}
		deps.Images = up
	} else {
		log.Warn("S3_BUCKET not set, meal image uploads disabled")
	}

	r := routes.SetupRouter(deps)
	log.Info("listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreBackend))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
