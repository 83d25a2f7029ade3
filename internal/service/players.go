package service

import (
	"sync"

	"werewolf-be/internal/service/game"

	"go.uber.org/zap"
)

// PlayerRegistry 记录玩家当前占座的会话，
// 保证一个玩家同时只能在一个会话中
type PlayerRegistry struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{
		sessions: make(map[string]string),
	}
}

func (pr *PlayerRegistry) Bind(playerID string, sessionID string) error {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if bound, ok := pr.sessions[playerID]; ok && bound != sessionID {
		zap.S().Debugf("玩家 %s 已在会话 %s 中，拒绝绑定到 %s", playerID, bound, sessionID)
		return game.ErrAlreadyInSession
	}

	pr.sessions[playerID] = sessionID
	return nil
}

func (pr *PlayerRegistry) Release(playerID string, sessionID string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.sessions[playerID] == sessionID {
		delete(pr.sessions, playerID)
	}
}

func (pr *PlayerRegistry) ReleaseSession(sessionID string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for playerID, bound := range pr.sessions {
		if bound == sessionID {
			delete(pr.sessions, playerID)
		}
	}
}

// SessionOf 返回玩家当前所在的会话 ID，未绑定时返回空串
func (pr *PlayerRegistry) SessionOf(playerID string) string {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	return pr.sessions[playerID]
}
