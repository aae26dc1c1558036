package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/michaelkaiserz/mongomanager/bootstrap"
	"github.com/michaelkaiserz/mongomanager/config"
	"github.com/michaelkaiserz/mongomanager/controllers"
	_ "github.com/michaelkaiserz/mongomanager/docs"
	"github.com/michaelkaiserz/mongomanager/pkg/logger"
	"github.com/michaelkaiserz/mongomanager/repository"
	"github.com/michaelkaiserz/mongomanager/services"
	"github.com/michaelkaiserz/mongomanager/services/mongodb"
	"github.com/michaelkaiserz/mongomanager/services/monitor"
	"github.com/michaelkaiserz/mongomanager/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           mongomanager
// @version         1.0
// @description     Web-based MongoDB administration console API

// @BasePath  /api

func main() {
	// 1) Load config
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("LoadConfig error: %v", err)
	}

	// 2) Init structured logger with config
	logger.Init(
		config.Cfg.LogFile,
		logger.ParseLevel(config.Cfg.LogLevel),
		logger.RotationConfig{
			MaxSizeMB:  config.Cfg.LogMaxSize,
			MaxBackups: config.Cfg.LogMaxBackups,
			MaxAgeDays: config.Cfg.LogMaxAge,
			Compress:   config.Cfg.LogCompress,
		},
	)
	logger.Infof("Starting mongomanager with log level: %s", config.Cfg.LogLevel)

	// 3) Connect registry DB (GORM) and migrate
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("ConnectDB error: %v", err)
	}
	if config.DB == nil {
		log.Fatal("Database is nil after ConnectDB")
	}
	if err := bootstrap.Migrate(); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	// 4) Wire monitor and services
	hub := monitor.NewHub()
	metrics := monitor.NewMetricsStore(100)
	alerts := monitor.NewAlertStore(100)
	prober := monitor.NewProber(config.Cfg.ProbeTimeout)
	scheduler := monitor.NewScheduler(
		monitor.NewRegistryStore(repository.NewConnectionRepository()),
		prober, metrics, alerts, hub,
		config.Cfg.MonitorInterval,
	)

	controllers.SetConnectionService(services.NewConnectionService(prober, hub, metrics))
	controllers.SetBrowserService(mongodb.NewBrowserService())
	controllers.SetMonitorStores(hub, metrics, alerts)

	scheduler.Start()

	// 5) Setup Gin
	router := gin.Default()
	router.Use(utils.LoggerMiddleware())

	api := router.Group("/api")
	{
		controllers.RegisterConnectionRoutes(api)
		controllers.RegisterBrowserRoutes(api)
		controllers.RegisterMonitorRoutes(api)
	}

	// 6) Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 7) Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Infof("Received shutdown signal, stopping monitor scheduler...")
		scheduler.Stop()
		logger.Infof("Application shutdown complete")
		os.Exit(0)
	}()

	// 8) Run
	logger.Infof("Starting server at port %s", config.Cfg.ServerPort)
	router.Run("0.0.0.0:" + config.Cfg.ServerPort)
}
