package game

import (
	"go.uber.org/zap"
)

// 游戏阶段。lobby 是组局阶段，started 之后进入
// 白天讨论/投票 与 夜晚行动/计票 的循环，直到 over
const (
	PHASE_LOBBY               = "lobby"
	PHASE_STARTED             = "started"
	PHASE_DAYTIME             = "daytime"
	PHASE_DAYTIMEVOTING       = "daytimeVoting"
	PHASE_ENDOFDAY            = "endOfDay"
	PHASE_DAYTIMEVOTEFAILED   = "daytimeVoteFailed"
	PHASE_NIGHTTIME           = "nighttime"
	PHASE_NIGHTTIMEVOTING     = "nighttimeVoting"
	PHASE_ENDOFNIGHT          = "endOfNight"
	PHASE_NIGHTTIMEVOTEFAILED = "nighttimeVoteFailed"
	PHASE_OVER                = "over"
)

type StageHandler interface {
	Stage() string

	OnEnter(ctx *GameContext)
	OnHandle(ctx *GameContext, req RequestWrapper) error
	OnExit(ctx *GameContext)

	SetOnSwitch(func(nextStage string))
}

// 每个阶段处理器都必须完整实现 StageHandler
var (
	_ StageHandler = (*lobbyStageHandler)(nil)
	_ StageHandler = (*startedStageHandler)(nil)
	_ StageHandler = (*daytimeStageHandler)(nil)
	_ StageHandler = (*daytimeVotingStageHandler)(nil)
	_ StageHandler = (*endOfDayStageHandler)(nil)
	_ StageHandler = (*dayVoteFailedStageHandler)(nil)
	_ StageHandler = (*nighttimeStageHandler)(nil)
	_ StageHandler = (*nighttimeVotingStageHandler)(nil)
	_ StageHandler = (*endOfNightStageHandler)(nil)
	_ StageHandler = (*nightVoteFailedStageHandler)(nil)
	_ StageHandler = (*overStageHandler)(nil)
)

// handleCommon 处理所有阶段都接受的请求：
// 加入/重连、快照、退出、房主强制终止。
// 返回值指示请求是否已被消费
func handleCommon(ctx *GameContext, req RequestWrapper, onSwitch func(string)) (bool, error) {
	if jreq := TryUnwrapJoinSessionRequest(req); jreq != nil {
		return true, onPlayerJoin(ctx, req)
	}

	if sreq := TryUnwrapSnapshotRequest(req); sreq != nil {
		ctx.UnicastResp(
			req.PlayerID,
			WrapResponse(RESP_SNAPSHOT, BuildView(ctx, req.PlayerID)),
		)
		return true, nil
	}

	if treq := TryUnwrapTerminateRequest(req); treq != nil {
		if req.PlayerID != ctx.OwnerID {
			return true, ErrNotOwner
		}

		zap.L().Info(
			"房主强制终止对局",
			zap.String("session_id", ctx.SessionID),
			zap.String("player_id", req.PlayerID),
		)

		ctx.Winner = ""
		onSwitch(PHASE_OVER)

		return true, nil
	}

	if ereq := TryUnwrapExitSessionRequest(req); ereq != nil {
		return true, onPlayerExit(ctx, req)
	}

	return false, nil
}

// onPlayerJoin 处理加入请求。已存在的玩家 ID 视为断线重连：
// 替换响应通道并补发私有快照；新玩家只能在组局阶段加入
func onPlayerJoin(ctx *GameContext, req RequestWrapper) error {
	if existing, ok := ctx.Players[req.PlayerID]; ok {
		// 响应通道归传输层所有，状态机不关闭它：
		// 只通知旧连接被顶替，由旧连接自行断开
		if existing.RespCh != nil && existing.RespCh != req.RespCh {
			select {
			case existing.RespCh <- WrapResponse(RESP_KICKED, KickedResponse{
				Reason: "已在新连接上重新加入",
			}):
			default:
			}
		}

		existing.RespCh = req.RespCh
		existing.Connected = true

		ctx.UnicastResp(
			existing.ID,
			WrapResponse(RESP_JOIN_SESSION, JoinSessionResponse{
				SessionID: ctx.SessionID,
				Seat:      ctx.SeatOf(existing.ID),
				View:      BuildView(ctx, existing.ID),
			}),
		)

		broadcastSeats(ctx)

		zap.L().Info(
			"玩家断线重连",
			zap.String("session_id", ctx.SessionID),
			zap.String("player_id", existing.ID),
		)

		return nil
	}

	if ctx.Phase != PHASE_LOBBY {
		return ErrSessionStarted
	}

	seat := firstVacantSeat(ctx)
	if seat < 0 {
		return ErrSessionFull
	}

	if err := ctx.Registry.Bind(req.PlayerID, ctx.SessionID); err != nil {
		return err
	}

	player := &Player{
		ID:        req.PlayerID,
		Name:      req.PlayerName,
		Role:      ROLE_UNSET,
		Connected: true,
		RespCh:    req.RespCh,
	}

	ctx.Players[player.ID] = player
	ctx.Seats[seat] = player.ID

	ctx.UnicastResp(
		player.ID,
		WrapResponse(RESP_JOIN_SESSION, JoinSessionResponse{
			SessionID: ctx.SessionID,
			Seat:      seat,
			View:      BuildView(ctx, player.ID),
		}),
	)

	broadcastSeats(ctx)

	zap.L().Info(
		"玩家加入对局",
		zap.String("session_id", ctx.SessionID),
		zap.String("player_id", player.ID),
		zap.String("player_name", player.Name),
		zap.Int("seat", seat),
	)

	return nil
}

func onPlayerExit(ctx *GameContext, req RequestWrapper) error {
	player, ok := ctx.Players[req.PlayerID]
	if !ok {
		return ErrNotInSession
	}

	exitResp := WrapResponse(RESP_EXIT_SESSION, ExitSessionResponse{
		LeftPlayerID:   player.ID,
		LeftPlayerName: player.Name,
	})

	// 响应通道不匹配说明该连接已被重连顶替，
	// 给旧连接补一个退出确认即可，会话状态不变
	if player.RespCh != req.RespCh {
		zap.L().Debug(
			"旧连接退出（已被重连顶替）",
			zap.String("session_id", ctx.SessionID),
			zap.String("player_id", player.ID),
		)

		if req.RespCh != nil {
			select {
			case req.RespCh <- exitResp:
			default:
			}
		}

		return nil
	}

	ctx.UnicastResp(player.ID, exitResp)

	player.RespCh = nil
	player.Connected = false

	if ctx.Phase == PHASE_LOBBY {
		// 组局阶段退出即离开：腾出座位并解除占位
		if seat := ctx.SeatOf(player.ID); seat >= 0 {
			ctx.Seats[seat] = ""
		}
		delete(ctx.Players, player.ID)
		ctx.Registry.Release(player.ID, ctx.SessionID)

		broadcastSeats(ctx)
	}

	ctx.BroadcastResp(exitResp)

	zap.L().Info(
		"玩家退出连接",
		zap.String("session_id", ctx.SessionID),
		zap.String("player_id", player.ID),
		zap.String("phase", ctx.Phase),
	)

	return nil
}

func firstVacantSeat(ctx *GameContext) int {
	for i, id := range ctx.Seats {
		if id == "" {
			return i
		}
	}

	return -1
}

func broadcastSeats(ctx *GameContext) {
	// 座位视角与观察者身份相关，逐个单播
	for _, p := range ctx.Players {
		ctx.UnicastResp(
			p.ID,
			WrapResponse(RESP_SEAT_UPDATE, SeatUpdateResponse{
				Seats: BuildSeatViews(ctx, p.ID),
			}),
		)
	}
}

func broadcastPhase(ctx *GameContext, note string) {
	ctx.BroadcastResp(WrapResponse(RESP_PHASE, PhaseResponse{
		Phase:     ctx.Phase,
		DayNumber: ctx.DayNumber,
		Note:      note,
	}))
}

// applyDeaths 原子地应用一批淘汰并广播，按配置公开死者角色
func applyDeaths(ctx *GameContext, phase string, deaths []string) {
	views := make([]DeathView, 0, len(deaths))

	for _, id := range deaths {
		p, ok := ctx.Players[id]
		if !ok || !p.Alive {
			continue
		}

		p.Alive = false

		view := DeathView{PlayerID: p.ID, Name: p.Name}
		if ctx.Rules.RevealRoleOnDeath {
			view.Role = p.Role
		}

		views = append(views, view)
	}

	ctx.BroadcastResp(WrapResponse(RESP_DEATHS, DeathsResponse{
		Phase:  phase,
		Deaths: views,
	}))
}

// 组局阶段处理器：加入、换座、起身、开始
type lobbyStageHandler struct {
	onSwitch func(string)
}

func NewLobbyStageHandler() *lobbyStageHandler {
	return &lobbyStageHandler{}
}

func (lsh *lobbyStageHandler) Stage() string {
	return PHASE_LOBBY
}

func (lsh *lobbyStageHandler) OnEnter(ctx *GameContext) {
	zap.L().Info(
		"对局进入组局阶段",
		zap.String("session_id", ctx.SessionID),
		zap.String("owner_id", ctx.OwnerID),
		zap.Int("max_players", ctx.MaxPlayers),
		zap.Int("num_werewolves", ctx.NumWerewolves),
	)
}

func (lsh *lobbyStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, lsh.onSwitch); handled {
		return err
	}

	if treq := TryUnwrapToggleSeatRequest(req); treq != nil {
		return onToggleSeat(ctx, req.PlayerID, treq.Seat)
	}

	if sreq := TryUnwrapStartSessionRequest(req); sreq != nil {
		if req.PlayerID != ctx.OwnerID {
			return ErrNotOwner
		}
		if ctx.OccupiedSeats() < ctx.MaxPlayers {
			return ErrNotFull
		}

		lsh.onSwitch(PHASE_STARTED)

		return nil
	}

	return ErrWrongPhase
}

func onToggleSeat(ctx *GameContext, playerID string, seat *int) error {
	player, ok := ctx.Players[playerID]
	if !ok {
		return ErrNotInSession
	}

	current := ctx.SeatOf(playerID)

	// 起身
	if seat == nil {
		if current < 0 {
			return ErrNotSeated
		}

		ctx.Seats[current] = ""
		ctx.Registry.Release(playerID, ctx.SessionID)

		broadcastSeats(ctx)

		return nil
	}

	target := *seat
	if target < 0 || target >= len(ctx.Seats) {
		return ErrInvalidSeat
	}

	if ctx.Seats[target] != "" && ctx.Seats[target] != playerID {
		return ErrSeatOccupied
	}

	if current == target {
		return nil
	}

	// 起身过的玩家重新入座需要重新占位
	if current < 0 {
		if err := ctx.Registry.Bind(playerID, ctx.SessionID); err != nil {
			return err
		}
	} else {
		ctx.Seats[current] = ""
	}

	ctx.Seats[target] = player.ID

	broadcastSeats(ctx)

	return nil
}

func (lsh *lobbyStageHandler) OnExit(ctx *GameContext) {
}

func (lsh *lobbyStageHandler) SetOnSwitch(onSwitch func(string)) {
	lsh.onSwitch = onSwitch
}

// 开局阶段是瞬时阶段：分配角色、私发身份，随即进入第一个白天
type startedStageHandler struct {
	onSwitch func(string)
}

func NewStartedStageHandler() *startedStageHandler {
	return &startedStageHandler{}
}

func (ssh *startedStageHandler) Stage() string {
	return PHASE_STARTED
}

func (ssh *startedStageHandler) OnEnter(ctx *GameContext) {
	if err := AssignRoles(ctx); err != nil {
		// 角色集配置违规属于运维错误，终止对局并保留日志
		zap.L().Error(
			"角色分配失败，终止对局",
			zap.String("session_id", ctx.SessionID),
			zap.Error(err),
		)

		ctx.Winner = ""
		ssh.onSwitch(PHASE_OVER)

		return
	}

	packmates := make([]string, 0, ctx.NumWerewolves)
	for _, wolf := range ctx.LivingWerewolves() {
		packmates = append(packmates, wolf.ID)
	}

	for _, p := range ctx.SeatedPlayers() {
		started := SessionStartedResponse{Role: p.Role}

		if p.IsWerewolf() {
			for _, id := range packmates {
				if id != p.ID {
					started.Packmates = append(started.Packmates, id)
				}
			}
		}

		ctx.UnicastResp(p.ID, WrapResponse(RESP_SESSION_STARTED, started))
	}

	broadcastPhase(ctx, "")

	ssh.onSwitch(PHASE_DAYTIME)
}

func (ssh *startedStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, ssh.onSwitch); handled {
		return err
	}

	return ErrWrongPhase
}

func (ssh *startedStageHandler) OnExit(ctx *GameContext) {
}

func (ssh *startedStageHandler) SetOnSwitch(onSwitch func(string)) {
	ssh.onSwitch = onSwitch
}
