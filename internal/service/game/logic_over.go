package game

import (
	"go.uber.org/zap"
)

// 终局阶段：公开全部身份、广播结果、解除占位并归档。
// 状态机在执行完本阶段的 OnEnter 后退出，不再接受任何变更
type overStageHandler struct {
	onSwitch func(string)
}

func NewOverStageHandler() *overStageHandler {
	return &overStageHandler{}
}

func (osh *overStageHandler) Stage() string {
	return PHASE_OVER
}

func (osh *overStageHandler) OnEnter(ctx *GameContext) {
	ctx.ClearTimeout()

	roles := make(map[string]string)
	for _, p := range ctx.SeatedPlayers() {
		roles[p.ID] = p.Role
	}

	ctx.BroadcastResp(WrapResponse(RESP_GAME_RESULT, GameResultResponse{
		Winner: ctx.Winner,
		Days:   ctx.DayNumber,
		Roles:  roles,
	}))

	ctx.Registry.ReleaseSession(ctx.SessionID)

	if ctx.Archiver != nil {
		rec := GameRecord{
			SessionID:     ctx.SessionID,
			Winner:        ctx.Winner,
			Days:          ctx.DayNumber,
			MaxPlayers:    ctx.MaxPlayers,
			NumWerewolves: ctx.NumWerewolves,
			Roles:         roles,
		}

		if err := ctx.Archiver.SaveRecord(rec); err != nil {
			zap.L().Error(
				"归档对局记录失败",
				zap.String("session_id", ctx.SessionID),
				zap.Error(err),
			)
		}
	}

	zap.L().Info(
		"对局结束",
		zap.String("session_id", ctx.SessionID),
		zap.String("winner", ctx.Winner),
		zap.Int("days", ctx.DayNumber),
	)
}

func (osh *overStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if sreq := TryUnwrapSnapshotRequest(req); sreq != nil {
		ctx.UnicastResp(
			req.PlayerID,
			WrapResponse(RESP_SNAPSHOT, BuildView(ctx, req.PlayerID)),
		)
		return nil
	}

	return ErrGameOver
}

func (osh *overStageHandler) OnExit(ctx *GameContext) {
	// 强制维持终局阶段，防止出现异常状态
	ctx.Phase = PHASE_OVER
}

func (osh *overStageHandler) SetOnSwitch(onSwitch func(string)) {
	osh.onSwitch = onSwitch
}
