package service

import (
	"encoding/json"

	"werewolf-be/internal/repository"
	"werewolf-be/internal/repository/models"
	"werewolf-be/internal/service/game"

	"go.uber.org/zap"
)

// RecordArchiver 把结束的对局写入数据库，
// 数据库未启用时会话直接不挂载存档器
type RecordArchiver struct {
	repos *repository.Repositories
}

func NewRecordArchiver(repos *repository.Repositories) *RecordArchiver {
	return &RecordArchiver{repos: repos}
}

func (ra *RecordArchiver) SaveRecord(record game.GameRecord) error {
	rolesJSON, err := json.Marshal(record.Roles)
	if err != nil {
		return err
	}

	entity := &models.GameRecord{
		SessionID:     record.SessionID,
		Winner:        record.Winner,
		Days:          record.Days,
		MaxPlayers:    record.MaxPlayers,
		NumWerewolves: record.NumWerewolves,
		RolesJSON:     string(rolesJSON),
	}

	if err := ra.repos.Record.Create(entity); err != nil {
		return err
	}

	zap.S().Infof("会话 %s 对局存档完成", record.SessionID)
	return nil
}

// RecentRecords 返回最近结束的若干局存档，供历史查询接口使用
func (ra *RecordArchiver) RecentRecords(limit int) ([]models.GameRecord, error) {
	return ra.repos.Record.FindRecent(limit)
}

func (ra *RecordArchiver) SessionRecord(sessionID string) (*models.GameRecord, error) {
	return ra.repos.Record.FindBySessionID(sessionID)
}
