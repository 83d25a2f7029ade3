package service

import (
	"sync"
	"time"

	"werewolf-be/internal/config"
	"werewolf-be/internal/service/dto"
	"werewolf-be/internal/service/game"

	"go.uber.org/zap"
)

// 空闲超过该时长且没有任何连接的会话会被强制终止
const abandonTimeout = 10 * time.Minute

type SessionService struct {
	state *sessionServiceState

	registry *PlayerRegistry
	archiver game.Archiver
	defaults game.Rules
}

type sessionServiceState struct {
	mu sync.RWMutex

	// 均为从会话 ID 到实体的映射
	machines map[string]*game.GameMachine
	doneChs  map[string]chan struct{}

	cleanUpDone chan struct{}
}

func NewSessionService(
	rulesCfg config.RulesConfig,
	registry *PlayerRegistry,
	archiver game.Archiver,
) *SessionService {
	state := &sessionServiceState{
		machines:    make(map[string]*game.GameMachine),
		doneChs:     make(map[string]chan struct{}),
		cleanUpDone: make(chan struct{}),
	}

	svc := &SessionService{
		state:    state,
		registry: registry,
		archiver: archiver,
		defaults: mergeRules(game.DefaultRules(), rulesCfg),
	}

	// 启动一个 goroutine 定期清理结束和被遗弃的会话
	go svc.startCleanupLoop()

	return svc
}

func (ss *SessionService) startCleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ss.state.cleanUpDone:
			return

		case <-ticker.C:
			ss.state.mu.Lock()

			for sessionID, gm := range ss.state.machines {
				if gm.IsFinished() {
					zap.S().Infof("会话 %s 已结束，清理资源", sessionID)

					delete(ss.state.machines, sessionID)
					delete(ss.state.doneChs, sessionID)
					continue
				}

				// 所有连接都断开且长时间无活动视为被遗弃，
				// 通知状态机强制结束
				if gm.Conns() <= 0 && time.Since(gm.LastActive()) > abandonTimeout {
					zap.S().Infof("会话 %s 已被遗弃，发送终止信号", sessionID)

					close(ss.state.doneChs[sessionID])
					delete(ss.state.doneChs, sessionID)
					delete(ss.state.machines, sessionID)
				}
			}

			ss.state.mu.Unlock()
		}
	}
}

func (ss *SessionService) Close() {
	close(ss.state.cleanUpDone)

	ss.state.mu.Lock()
	defer ss.state.mu.Unlock()

	for sessionID, doneCh := range ss.state.doneChs {
		close(doneCh)
		delete(ss.state.doneChs, sessionID)
	}
}

// CreateSession 校验板子配置后创建会话，
// 创建者自动占据 0 号座位，状态机在独立协程中启动
func (ss *SessionService) CreateSession(
	owner game.Player,
	req dto.CreateSessionRequest,
) (dto.CreateSessionResponse, error) {
	if err := game.ValidateComposition(req.MaxPlayers, req.NumWerewolves); err != nil {
		return dto.CreateSessionResponse{}, err
	}

	rules := overrideRules(ss.defaults, req)

	sessionID := game.ShortID()

	ss.state.mu.Lock()
	defer ss.state.mu.Unlock()

	if err := ss.registry.Bind(owner.ID, sessionID); err != nil {
		return dto.CreateSessionResponse{}, err
	}

	doneCh := make(chan struct{})

	gm := game.NewGameMachine(
		sessionID,
		owner,
		req.MaxPlayers,
		req.NumWerewolves,
		rules,
		ss.registry,
		ss.archiver,
		doneCh,
	)

	ss.state.machines[sessionID] = gm
	ss.state.doneChs[sessionID] = doneCh

	go gm.Start()

	zap.S().Infof("会话 %s 由 %s 创建，%d 人局 %d 狼",
		sessionID, owner.Name, req.MaxPlayers, req.NumWerewolves)

	return dto.CreateSessionResponse{SessionID: sessionID}, nil
}

// Machine 返回会话对应的状态机，不存在或已结束时返回错误
func (ss *SessionService) Machine(sessionID string) (*game.GameMachine, error) {
	ss.state.mu.RLock()
	defer ss.state.mu.RUnlock()

	gm, ok := ss.state.machines[sessionID]
	if !ok || gm.IsFinished() {
		return nil, game.ErrSessionNotFound
	}

	return gm, nil
}

func (ss *SessionService) Summaries() []dto.SessionSummary {
	ss.state.mu.RLock()
	defer ss.state.mu.RUnlock()

	summaries := make([]dto.SessionSummary, 0, len(ss.state.machines))

	for _, gm := range ss.state.machines {
		if gm.IsFinished() {
			continue
		}

		summaries = append(summaries, dto.SessionSummary{
			SessionID:   gm.SessionID(),
			Phase:       gm.Phase(),
			Connections: gm.Conns(),
			MaxPlayers:  gm.MaxPlayers(),
		})
	}

	return summaries
}

// mergeRules 用配置文件中的默认规则覆盖内置默认值
func mergeRules(base game.Rules, cfg config.RulesConfig) game.Rules {
	if cfg.Elixir != "" {
		base.Elixir = cfg.Elixir
	}
	if cfg.Poison != "" {
		base.Poison = cfg.Poison
	}
	if cfg.Bodyguard != "" {
		base.Bodyguard = cfg.Bodyguard
	}
	if cfg.DayVotePolicy != "" {
		base.DayVotePolicy = cfg.DayVotePolicy
	}
	if cfg.QuorumFraction > 0 {
		base.QuorumFraction = cfg.QuorumFraction
	}
	if cfg.SpecialRoles != nil {
		base.SpecialRoles = cfg.SpecialRoles
	}
	if cfg.DaytimeSeconds > 0 {
		base.DaytimeSeconds = cfg.DaytimeSeconds
	}
	if cfg.VotingSeconds > 0 {
		base.VotingSeconds = cfg.VotingSeconds
	}
	if cfg.NightSeconds > 0 {
		base.NightSeconds = cfg.NightSeconds
	}

	if cfg.RevealRole != nil {
		base.RevealRoleOnDeath = *cfg.RevealRole
	}

	return base
}

// overrideRules 应用创建请求中的逐项规则覆盖
func overrideRules(base game.Rules, req dto.CreateSessionRequest) game.Rules {
	if req.Elixir != "" {
		base.Elixir = req.Elixir
	}
	if req.Poison != "" {
		base.Poison = req.Poison
	}
	if req.Bodyguard != "" {
		base.Bodyguard = req.Bodyguard
	}
	if req.DayVotePolicy != "" {
		base.DayVotePolicy = req.DayVotePolicy
	}
	if req.SpecialRoles != nil {
		base.SpecialRoles = req.SpecialRoles
	}

	return base
}
