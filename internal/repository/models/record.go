package models

import "gorm.io/gorm"

// GameRecord 是一局结束后落库的对局存档
type GameRecord struct {
	gorm.Model
	SessionID     string `gorm:"index"`
	Winner        string
	Days          int
	MaxPlayers    int
	NumWerewolves int
	// 玩家 ID 到身份的映射，JSON 编码后存储
	RolesJSON string
}
