package game

import (
	"time"

	"go.uber.org/zap"
)

// GameContext 是一个会话的全部可变状态。
// 所有读写都发生在该会话的状态机协程内，不需要加锁
type GameContext struct {
	SessionID string
	OwnerID   string
	Phase     string

	MaxPlayers    int
	NumWerewolves int
	Rules         Rules

	// 所有加入过会话的玩家，含中途断线者
	Players map[string]*Player
	// 座位 -> 玩家 ID，空串表示空位，长度恒等于 MaxPlayers
	Seats []string

	// 第几个白天，从 1 开始，进入白天时递增
	DayNumber int
	// 当前投票子阶段的选票，voterID -> targetID（空串弃权），
	// 每个子阶段开始时清空
	Votes map[string]string
	// 白天投票判定出的淘汰目标
	DayVictim string

	Night NightActions

	// 跨夜状态：药剂一局一次，守卫不能连守
	ElixirUsed      bool
	PoisonUsed      bool
	LastGuardTarget string

	Winner string

	Registry SeatRegistry
	Archiver Archiver

	Timer *time.Timer
	TmoCh chan RequestWrapper
}

func (gc *GameContext) Owner() *Player {
	return gc.Players[gc.OwnerID]
}

// SeatOf 返回玩家占用的座位下标，未入座返回 -1
func (gc *GameContext) SeatOf(playerID string) int {
	for i, id := range gc.Seats {
		if id == playerID && id != "" {
			return i
		}
	}

	return -1
}

func (gc *GameContext) OccupiedSeats() int {
	n := 0
	for _, id := range gc.Seats {
		if id != "" {
			n++
		}
	}

	return n
}

// SeatedPlayers 按座位顺序返回入座玩家
func (gc *GameContext) SeatedPlayers() []*Player {
	players := make([]*Player, 0, len(gc.Seats))
	for _, id := range gc.Seats {
		if id == "" {
			continue
		}
		if p, ok := gc.Players[id]; ok {
			players = append(players, p)
		}
	}

	return players
}

// LivingPlayers 按座位顺序返回存活玩家
func (gc *GameContext) LivingPlayers() []*Player {
	players := make([]*Player, 0, len(gc.Seats))
	for _, p := range gc.SeatedPlayers() {
		if p.Alive {
			players = append(players, p)
		}
	}

	return players
}

// LivingSet 返回存活玩家 ID 集合，供计票使用
func (gc *GameContext) LivingSet() map[string]bool {
	living := make(map[string]bool)
	for _, p := range gc.LivingPlayers() {
		living[p.ID] = true
	}

	return living
}

func (gc *GameContext) LivingWerewolves() []*Player {
	wolves := make([]*Player, 0, gc.NumWerewolves)
	for _, p := range gc.LivingPlayers() {
		if p.IsWerewolf() {
			wolves = append(wolves, p)
		}
	}

	return wolves
}

// FindRole 返回持有指定角色的玩家，未分配该角色返回 nil
func (gc *GameContext) FindRole(role string) *Player {
	for _, p := range gc.SeatedPlayers() {
		if p.Role == role {
			return p
		}
	}

	return nil
}

// CheckWin 在每次应用淘汰后调用：
// 狼人全部出局则好人胜，存活狼人不少于存活好人则狼人胜
func (gc *GameContext) CheckWin() (string, bool) {
	living := gc.LivingPlayers()

	wolves := 0
	for _, p := range living {
		if p.IsWerewolf() {
			wolves++
		}
	}

	if wolves == 0 {
		return WINNER_VILLAGERS, true
	}
	if wolves >= len(living)-wolves {
		return WINNER_WEREWOLVES, true
	}

	return "", false
}

func (gc *GameContext) BroadcastResp(resp ResponseWrapper) {
	for _, p := range gc.Players {
		gc.UnicastResp(p.ID, resp)
	}
}

// BroadcastWolves 只发给存活的狼人（狼人夜间私有频道）
func (gc *GameContext) BroadcastWolves(resp ResponseWrapper) {
	for _, p := range gc.LivingWerewolves() {
		gc.UnicastResp(p.ID, resp)
	}
}

func (gc *GameContext) UnicastResp(playerID string, resp ResponseWrapper) {
	player, ok := gc.Players[playerID]
	if !ok {
		zap.L().Warn(
			"无法找到玩家进行单播响应",
			zap.String("session_id", gc.SessionID),
			zap.String("player_id", playerID),
		)
		return
	}

	// RespCh 为 nil（尚未连接）时 select 永远走 default 分支
	select {
	case player.RespCh <- resp:
	default:
		zap.L().Debug(
			"发送响应失败：玩家未连接或通道已满",
			zap.String("session_id", gc.SessionID),
			zap.String("player_id", playerID),
		)
	}
}

// SetTimeout 在 d 之后向超时通道投递一个 Timeout 请求。
// 携带当前阶段，过期的定时器在处理时会被丢弃
func (gc *GameContext) SetTimeout(d time.Duration) {
	gc.ClearTimeout()

	if d <= 0 {
		return
	}

	phase := gc.Phase
	tmoCh := gc.TmoCh

	gc.Timer = time.AfterFunc(d, func() {
		wrapper := RequestWrapper{
			ReqType: REQ_TIMEOUT,
			Data:    mustMarshal(TimeoutRequest{Phase: phase}),
		}

		select {
		case tmoCh <- wrapper:
		default:
			zap.L().Warn("超时通道已满，丢弃超时事件")
		}
	})
}

func (gc *GameContext) ClearTimeout() {
	if gc.Timer != nil {
		gc.Timer.Stop()
		gc.Timer = nil
	}
}
