package game

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// GameMachine 是一个会话的状态机，独占一个协程串行处理
// 该会话的全部变更与快照请求
type GameMachine struct {
	ctx     *GameContext
	handler StageHandler

	// 所有客户端请求汇总的通道
	reqCh chan RequestWrapper
	// 关闭后状态机强制终止（无胜利方）并退出
	doneCh chan struct{}

	createdAt  time.Time
	finished   atomic.Bool
	conns      atomic.Int32
	lastActive atomic.Int64
	// 状态机协程之外可读的阶段镜像
	phaseView atomic.Value
}

func NewGameMachine(
	sessionID string,
	owner Player,
	maxPlayers int,
	numWerewolves int,
	rules Rules,
	registry SeatRegistry,
	archiver Archiver,
	doneCh chan struct{},
) *GameMachine {
	seats := make([]string, maxPlayers)
	seats[0] = owner.ID

	ctx := &GameContext{
		SessionID:     sessionID,
		OwnerID:       owner.ID,
		Phase:         PHASE_LOBBY,
		MaxPlayers:    maxPlayers,
		NumWerewolves: numWerewolves,
		Rules:         rules,
		Players:       map[string]*Player{owner.ID: &owner},
		Seats:         seats,
		Votes:         make(map[string]string),
		Night:         NewNightActions(),
		Registry:      registry,
		Archiver:      archiver,
		TmoCh:         make(chan RequestWrapper, 64),
	}

	gm := &GameMachine{
		ctx:       ctx,
		handler:   NewLobbyStageHandler(),
		reqCh:     make(chan RequestWrapper, 64),
		doneCh:    doneCh,
		createdAt: time.Now(),
	}

	gm.handler.SetOnSwitch(gm.onSwitch)
	gm.lastActive.Store(time.Now().UnixNano())
	gm.phaseView.Store(PHASE_LOBBY)

	return gm
}

func (gm *GameMachine) onSwitch(nextStage string) {
	gm.ctx.Phase = nextStage
	gm.phaseView.Store(nextStage)
}

func (gm *GameMachine) Phase() string {
	return gm.phaseView.Load().(string)
}

func (gm *GameMachine) ReqCh() chan RequestWrapper {
	return gm.reqCh
}

func (gm *GameMachine) SessionID() string {
	return gm.ctx.SessionID
}

// MaxPlayers 创建后不再变化，跨协程读取是安全的
func (gm *GameMachine) MaxPlayers() int {
	return gm.ctx.MaxPlayers
}

// Start 运行事件循环，应当在独立协程中调用，
// 对局结束后协程自动退出并释放资源
func (gm *GameMachine) Start() {
	gm.handler.OnEnter(gm.ctx)
	gm.advance()

	for gm.ctx.Phase != PHASE_OVER {
		var req RequestWrapper

		select {
		case req = <-gm.reqCh:
		case req = <-gm.ctx.TmoCh:
		case <-gm.doneCh:
			zap.L().Info(
				"收到终止信号，强制结束对局",
				zap.String("session_id", gm.ctx.SessionID),
			)

			gm.ctx.Winner = ""
			gm.onSwitch(PHASE_OVER)
			gm.advance()

			gm.shutdown()
			return
		}

		gm.lastActive.Store(time.Now().UnixNano())

		err := gm.handler.OnHandle(gm.ctx, req)
		if err != nil {
			zap.L().Debug(
				"处理请求失败",
				zap.String("session_id", gm.ctx.SessionID),
				zap.String("stage", gm.handler.Stage()),
				zap.String("request_type", req.ReqType),
				zap.Error(err),
			)

			// 校验失败只报告给发起者，不影响会话状态
			if req.RespCh != nil {
				select {
				case req.RespCh <- WrapErrResponse(err):
				default:
				}
			}
		}

		gm.advance()
	}

	gm.shutdown()
}

// advance 在阶段发生变化时切换处理器并级联执行瞬时阶段，
// 直到状态稳定。所有淘汰结算与胜负检查都在这条同步路径上完成
func (gm *GameMachine) advance() {
	for gm.ctx.Phase != gm.handler.Stage() {
		gm.switchStage()
		gm.handler.OnEnter(gm.ctx)
	}
}

func (gm *GameMachine) switchStage() {
	gm.handler.OnExit(gm.ctx)

	var newHandler StageHandler

	switch gm.ctx.Phase {
	case PHASE_LOBBY:
		newHandler = NewLobbyStageHandler()
	case PHASE_STARTED:
		newHandler = NewStartedStageHandler()
	case PHASE_DAYTIME:
		newHandler = NewDaytimeStageHandler()
	case PHASE_DAYTIMEVOTING:
		newHandler = NewDaytimeVotingStageHandler()
	case PHASE_ENDOFDAY:
		newHandler = NewEndOfDayStageHandler()
	case PHASE_DAYTIMEVOTEFAILED:
		newHandler = NewDayVoteFailedStageHandler()
	case PHASE_NIGHTTIME:
		newHandler = NewNighttimeStageHandler()
	case PHASE_NIGHTTIMEVOTING:
		newHandler = NewNighttimeVotingStageHandler()
	case PHASE_ENDOFNIGHT:
		newHandler = NewEndOfNightStageHandler()
	case PHASE_NIGHTTIMEVOTEFAILED:
		newHandler = NewNightVoteFailedStageHandler()
	case PHASE_OVER:
		newHandler = NewOverStageHandler()
	default:
		zap.L().Error(
			"未知的游戏阶段，回退到当前处理器",
			zap.String("session_id", gm.ctx.SessionID),
			zap.String("phase", gm.ctx.Phase),
		)

		// 回写阶段，避免 advance 死循环
		gm.onSwitch(gm.handler.Stage())
		return
	}

	newHandler.SetOnSwitch(gm.onSwitch)
	gm.handler = newHandler
}

func (gm *GameMachine) shutdown() {
	gm.ctx.ClearTimeout()
	gm.finished.Store(true)

	zap.L().Info(
		"游戏状态机已退出",
		zap.String("session_id", gm.ctx.SessionID),
	)
}

func (gm *GameMachine) IsFinished() bool {
	return gm.finished.Load()
}

func (gm *GameMachine) CreatedAt() time.Time {
	return gm.createdAt
}

// ConnAttached / ConnDetached 由传输层在连接建立和断开时调用，
// 用于清理循环识别被遗弃的会话
func (gm *GameMachine) ConnAttached() {
	gm.conns.Add(1)
	gm.lastActive.Store(time.Now().UnixNano())
}

func (gm *GameMachine) ConnDetached() {
	gm.conns.Add(-1)
	gm.lastActive.Store(time.Now().UnixNano())
}

func (gm *GameMachine) Conns() int {
	return int(gm.conns.Load())
}

func (gm *GameMachine) LastActive() time.Time {
	return time.Unix(0, gm.lastActive.Load())
}
