package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/kuraoka/signalquest/api/rest"
	"github.com/kuraoka/signalquest/audit"
	"github.com/kuraoka/signalquest/cache"
	"github.com/kuraoka/signalquest/config"
	dbadapter "github.com/kuraoka/signalquest/db"
	"github.com/kuraoka/signalquest/game/encounter"
	mw "github.com/kuraoka/signalquest/middleware"
	"github.com/kuraoka/signalquest/model"
	"github.com/kuraoka/signalquest/scheduler"
	"github.com/kuraoka/signalquest/store"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// Warn loudly if admin endpoints will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(context.Background())

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Stores ----
	players := store.NewPlayerStore(db)
	encounters := store.NewEncounterStore(db)

	// Seed the built-in opponent roster so fresh installs have someone to
	// fight before the first scan.
	if err := encounters.SeedNPCs(context.Background(), encounter.DefaultNPCs(time.Now())); err != nil {
		logger.Warn("npc seeding failed", zap.Error(err))
	}

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	// ---- REST handlers ----
	authH := apirest.NewAuthHandler(db, c, cfg.Security)
	playerH := apirest.NewPlayerHandler(players, auditSvc)
	trainingH := apirest.NewTrainingHandler(players, cfg.Game, auditSvc)
	battleH := apirest.NewBattleHandler(players, cfg.Game, auditSvc)
	scanH := apirest.NewScanHandler(encounters, logger)
	missionH := apirest.NewMissionHandler(players, auditSvc)
	rankH := apirest.NewRankingHandler(db, c, logger)

	pruneAge := time.Duration(cfg.Game.EncounterTTLDays) * 24 * time.Hour
	adminH := apirest.NewAdminHandler(db, encounters, sched, pruneAge)

	// ---- Periodic Scheduler Tasks ----
	sched.AddTicker("ranking_refresh", time.Duration(cfg.Game.RankingRefreshMin)*time.Minute, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		rankH.Refresh(ctx)
	})
	sched.AddTicker("encounter_prune", time.Duration(cfg.Game.EncounterPruneHours)*time.Hour, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		removed, err := encounters.PruneStale(ctx, time.Now().Add(-pruneAge))
		if err != nil {
			logger.Error("encounter prune failed", zap.Error(err))
			return
		}
		if removed > 0 {
			logger.Info("stale encounters pruned", zap.Int64("removed", removed))
		}
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/login", authH.Login)
		authG.POST("/logout", mw.Auth(cfg.Security, c), authH.Logout)
		authG.POST("/refresh", mw.Auth(cfg.Security, c), authH.Refresh)

		playerG := api.Group("/player")
		playerG.Use(mw.Auth(cfg.Security, c))
		playerG.GET("", playerH.Get)
		playerG.POST("", playerH.Create)
		playerG.DELETE("", playerH.Reset)
		playerG.POST("/skills", playerH.SpendSkills)

		gameG := api.Group("")
		gameG.Use(mw.Auth(cfg.Security, c))
		gameG.POST("/training/result", trainingH.SubmitResult)
		gameG.POST("/battle/result", battleH.SubmitResult)
		gameG.POST("/scan", scanH.Submit)
		gameG.GET("/encounters", scanH.List)
		gameG.POST("/encounters/:fingerprint/challenge", scanH.Challenge)
		gameG.GET("/missions", missionH.List)
		gameG.POST("/missions/event", missionH.SubmitEvent)
		gameG.GET("/ranking", rankH.List)

		adminG := api.Group("/admin")
		adminG.Use(apirest.AdminAuth(cfg.Server.AdminKey))
		adminG.GET("/metrics", adminH.Metrics)
		adminG.GET("/players", adminH.ListPlayers)
		adminG.POST("/encounters/prune", adminH.PruneEncounters)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
