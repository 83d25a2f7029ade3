package state

import (
	"werewolf-be/internal/config"
	"werewolf-be/internal/service"
)

type AppState struct {
	Cfg        *config.AppConfig
	SessionSvc *service.SessionService
	Players    *service.PlayerRegistry

	// 数据库未启用时为 nil，存档查询接口随之不可用
	Records *service.RecordArchiver
}

func NewAppState(
	cfg *config.AppConfig,
	sessionSvc *service.SessionService,
	players *service.PlayerRegistry,
	records *service.RecordArchiver,
) *AppState {
	return &AppState{
		Cfg:        cfg,
		SessionSvc: sessionSvc,
		Players:    players,
		Records:    records,
	}
}
