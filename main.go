package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/studyplanner/StudyPlannerBackend/cache"
	"github.com/studyplanner/StudyPlannerBackend/config"
	"github.com/studyplanner/StudyPlannerBackend/db"
	"github.com/studyplanner/StudyPlannerBackend/handlers"
	"github.com/studyplanner/StudyPlannerBackend/middleware"
	"github.com/studyplanner/StudyPlannerBackend/models"
	"github.com/studyplanner/StudyPlannerBackend/utils"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	utils.InitLogger(cfg.LogFile)
	defer utils.Logger.Sync()
	utils.InitMetrics()

	utils.Logger.Info("starting_application")

	middleware.JwtKey = []byte(cfg.JWTSecret)
	handlers.TokenTTL = cfg.TokenTTL.Std()
	handlers.StatsCacheTTL = cfg.StatsCacheTTL.Std()
	handlers.ExportTimeout = cfg.ExportTimeout.Std()

	db.Connect(cfg.DSN())
	if err := db.DB.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.Note{},
		&models.Diary{},
		&models.StudyRecord{},
		&models.BookRecord{},
	); err != nil {
		utils.Logger.Fatal("migration_failed", zap.Error(err))
	}

	if err := cache.InitRedis(cfg.RedisAddr(), utils.Logger); err != nil {
		utils.Logger.Fatal("redis_init_failed", zap.Error(err))
	}
	defer cache.Close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())

	// For browser clients that keep the token in a cookie; off by default
	// because the API is normally consumed with a Bearer header.
	if cfg.CSRFEnabled {
		r.Use(middleware.CSRFProtection([]byte(cfg.CSRFKey)))
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now(),
			"database":  "connected",
		})
	})

	authLimit := middleware.RateLimitMiddleware(cfg.AuthRateLimit, cfg.AuthRateWindow.Std())
	r.POST("/api/register", authLimit, handlers.Register)
	r.POST("/api/login", authLimit, handlers.Login)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/profile", handlers.Profile)
		api.PUT("/profile", handlers.UpdateProfile)

		api.GET("/goals", handlers.GetGoals)
		api.POST("/goals", handlers.CreateGoal)
		api.PUT("/goals/:id", handlers.UpdateGoal)
		api.DELETE("/goals/:id", handlers.DeleteGoal)

		api.GET("/notes", handlers.GetNotes)
		api.POST("/notes", handlers.CreateNote)
		api.PUT("/notes/:id", handlers.UpdateNote)
		api.DELETE("/notes/:id", handlers.DeleteNote)

		api.GET("/diaries", handlers.GetDiaries)
		api.POST("/diaries", handlers.CreateDiary)
		api.PUT("/diaries/:id", handlers.UpdateDiary)
		api.DELETE("/diaries/:id", handlers.DeleteDiary)

		api.GET("/study-records", handlers.GetStudyRecords)
		api.POST("/study-records", handlers.CreateStudyRecord)

		api.GET("/books", handlers.GetBooks)
		api.POST("/books", handlers.CreateBook)
		api.PUT("/books/:id", handlers.UpdateBook)
		api.DELETE("/books/:id", handlers.DeleteBook)

		api.GET("/statistics", middleware.CacheMiddleware(time.Minute), handlers.GetStatistics)
		api.POST("/export", handlers.ExportReport)

		admin := api.Group("/admin")
		admin.Use(middleware.RoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/backup", handlers.GetBackup)
			admin.POST("/restore", handlers.RestoreBackup)
		}
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	startServer(r, cfg)
}

func startServer(router *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Logger.Info("starting_http_server", zap.String("port", cfg.Port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Std())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatal("server_forced_shutdown", zap.Error(err))
	}

	utils.Logger.Info("server_stopped")
}
