package repository

import (
	"werewolf-be/internal/repository/models"
	"werewolf-be/internal/storage"
)

type RecordRepository interface {
	Create(record *models.GameRecord) error
	FindBySessionID(sessionID string) (*models.GameRecord, error)
	FindRecent(limit int) ([]models.GameRecord, error)
}

type recordRepository struct {
	db *storage.PostgresDB
}

func NewRecordRepository(db *storage.PostgresDB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Create(record *models.GameRecord) error {
	return r.db.Create(record).Error
}

func (r *recordRepository) FindBySessionID(sessionID string) (*models.GameRecord, error) {
	var record models.GameRecord
	err := r.db.Where("session_id = ?", sessionID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindRecent 查询最近结束的若干局存档
func (r *recordRepository) FindRecent(limit int) ([]models.GameRecord, error) {
	var records []models.GameRecord
	err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
