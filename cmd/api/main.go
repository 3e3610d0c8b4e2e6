package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"server-deck/internal/api"
	"server-deck/internal/config"
	"server-deck/internal/imaging"
	"server-deck/internal/model"
	"server-deck/internal/repository"
	"server-deck/internal/service"
	"server-deck/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := initDB(cfg, logger)

	store, err := storage.NewDiskStore(cfg.StorageDir)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	normalizer := imaging.NewNormalizer(store, cfg.ImageMinDimension, cfg.KeepUnsupportedImages)
	repo := repository.NewServerRepository(db)
	svc := service.NewServerService(repo, normalizer, logger, cfg.PublicBaseURL)

	router := api.NewRouter(svc, cfg.StorageDir, logger)

	logger.Info("server listening", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}

func initDB(cfg config.Config, logger *zap.Logger) *gorm.DB {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("failed to create database directory", zap.Error(err))
		}
	}

	logLevel := gormlogger.Warn
	if cfg.DBDebug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	if err := db.AutoMigrate(&model.Server{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	if cfg.SeedDemoData {
		seedDemoServers(db, logger)
	}

	return db
}

// seedDemoServers inserts a handful of demo records into an empty catalog.
func seedDemoServers(db *gorm.DB, logger *zap.Logger) {
	var count int64
	db.Model(&model.Server{}).Count(&count)
	if count > 0 {
		return
	}

	demo := []model.Server{
		{Name: "Primary Web Server", Description: "Apache server for the main application", Host: "web01.example.com", IPAddress: "192.168.1.10", SortOrder: 1, Status: true},
		{Name: "MySQL Database", Description: "Primary database server", Host: "db01.example.com", IPAddress: "192.168.1.20", SortOrder: 2, Status: true},
		{Name: "File Server", Description: "NAS for shared file storage", Host: "files01.example.com", IPAddress: "192.168.1.30", SortOrder: 3, Status: true},
		{Name: "Mail Server", Description: "Exchange server for corporate mail", Host: "mail01.example.com", IPAddress: "192.168.1.40", SortOrder: 4, Status: true},
		{Name: "Development Server", Description: "Development and testing environment", Host: "dev01.example.com", IPAddress: "192.168.1.50", SortOrder: 5, Status: true},
	}
	for i := range demo {
		if err := db.Create(&demo[i]).Error; err != nil {
			logger.Warn("failed to seed demo server", zap.String("name", demo[i].Name), zap.Error(err))
		}
	}
	logger.Info("seeded demo servers", zap.Int("count", len(demo)))
}
