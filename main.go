package main

import (
	"werewolf-be/internal/api/http"
	"werewolf-be/internal/auth"
	"werewolf-be/internal/config"
	"werewolf-be/internal/logger"
	"werewolf-be/internal/repository"
	"werewolf-be/internal/repository/models"
	"werewolf-be/internal/service"
	"werewolf-be/internal/service/game"
	"werewolf-be/internal/state"
	"werewolf-be/internal/storage"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)

	auth.SetSecret(cfg.JWTSecret)

	// 数据库可选，未启用时对局结束后不落库
	var archiver game.Archiver
	var records *service.RecordArchiver

	if cfg.Database.Enabled {
		db, err := storage.NewPostgresDB(
			cfg.Database.Host,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.DBName,
			cfg.Database.Port,
		)
		if err != nil {
			zap.S().Fatalf("初始化数据库失败: %v", err)
		}

		if err := db.AutoMigrate(&models.GameRecord{}); err != nil {
			zap.S().Fatalf("迁移数据库失败: %v", err)
		}

		records = service.NewRecordArchiver(repository.NewRepositories(db))
		archiver = records
	}

	players := service.NewPlayerRegistry()
	sessionSvc := service.NewSessionService(cfg.Rules, players, archiver)

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		sessionSvc,
		players,
		records,
	)

	// 启动服务器
	http.RunServer(appState)
}
