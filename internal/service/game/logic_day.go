package game

import (
	"time"

	"go.uber.org/zap"
)

// 白天讨论阶段：等待房主开启投票或讨论超时
type daytimeStageHandler struct {
	onSwitch func(string)
}

func NewDaytimeStageHandler() *daytimeStageHandler {
	return &daytimeStageHandler{}
}

func (dsh *daytimeStageHandler) Stage() string {
	return PHASE_DAYTIME
}

func (dsh *daytimeStageHandler) OnEnter(ctx *GameContext) {
	ctx.DayNumber++
	ctx.Votes = make(map[string]string)

	broadcastPhase(ctx, "")

	ctx.SetTimeout(time.Duration(ctx.Rules.DaytimeSeconds) * time.Second)
}

func (dsh *daytimeStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, dsh.onSwitch); handled {
		return err
	}

	if oreq := TryUnwrapOpenVoteRequest(req); oreq != nil {
		if req.PlayerID != ctx.OwnerID {
			return ErrNotOwner
		}

		dsh.onSwitch(PHASE_DAYTIMEVOTING)

		return nil
	}

	if treq := TryUnwrapTimeoutRequest(req); treq != nil {
		if treq.Phase == PHASE_DAYTIME {
			dsh.onSwitch(PHASE_DAYTIMEVOTING)
		}
		return nil
	}

	return ErrWrongPhase
}

func (dsh *daytimeStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout()
}

func (dsh *daytimeStageHandler) SetOnSwitch(onSwitch func(string)) {
	dsh.onSwitch = onSwitch
}

// 白天投票阶段：收集存活玩家的选票，
// 全员投完或超时后计票
type daytimeVotingStageHandler struct {
	onSwitch func(string)
}

func NewDaytimeVotingStageHandler() *daytimeVotingStageHandler {
	return &daytimeVotingStageHandler{}
}

func (dvh *daytimeVotingStageHandler) Stage() string {
	return PHASE_DAYTIMEVOTING
}

func (dvh *daytimeVotingStageHandler) OnEnter(ctx *GameContext) {
	ctx.Votes = make(map[string]string)

	broadcastPhase(ctx, "")

	ctx.SetTimeout(time.Duration(ctx.Rules.VotingSeconds) * time.Second)
}

func (dvh *daytimeVotingStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, dvh.onSwitch); handled {
		return err
	}

	if vreq := TryUnwrapVoteRequest(req); vreq != nil {
		if err := recordDayVote(ctx, req.PlayerID, vreq.TargetID); err != nil {
			return err
		}

		// 存活玩家全部投出选票即刻收束，无需等待超时
		if len(ctx.Votes) >= len(ctx.LivingPlayers()) {
			dvh.resolve(ctx)
		}

		return nil
	}

	if treq := TryUnwrapTimeoutRequest(req); treq != nil {
		if treq.Phase == PHASE_DAYTIMEVOTING {
			dvh.resolve(ctx)
		}
		return nil
	}

	return ErrWrongPhase
}

// recordDayVote 记录一张白天选票，同一玩家的后票覆盖前票
func recordDayVote(ctx *GameContext, voterID, targetID string) error {
	voter, ok := ctx.Players[voterID]
	if !ok || ctx.SeatOf(voterID) < 0 {
		return ErrInvalidBallot
	}
	if !voter.Alive {
		return ErrInvalidBallot
	}

	if targetID != "" {
		target, ok := ctx.Players[targetID]
		if !ok || !target.Alive {
			return ErrInvalidBallot
		}
	}

	ctx.Votes[voterID] = targetID

	counts := make(map[string]int)
	for _, t := range ctx.Votes {
		if t != "" {
			counts[t]++
		}
	}

	ctx.BroadcastResp(WrapResponse(RESP_VOTE_UPDATE, VoteUpdateResponse{
		Votes: counts,
		Cast:  len(ctx.Votes),
	}))

	return nil
}

func (dvh *daytimeVotingStageHandler) resolve(ctx *GameContext) {
	outcome := Tally(
		ctx.Votes,
		ctx.LivingSet(),
		ctx.Rules.DayVotePolicy,
		ctx.Rules.QuorumFraction,
	)

	ctx.BroadcastResp(WrapResponse(RESP_VOTE_RESULT, VoteResultResponse{
		Outcome:  outcome.Kind,
		TargetID: outcome.Target,
		Counts:   outcome.Counts,
	}))

	zap.L().Info(
		"白天投票计票完成",
		zap.String("session_id", ctx.SessionID),
		zap.Int("day", ctx.DayNumber),
		zap.String("outcome", outcome.Kind),
		zap.String("target", outcome.Target),
	)

	if outcome.Kind == OUTCOME_DECISIVE {
		ctx.DayVictim = outcome.Target
		dvh.onSwitch(PHASE_ENDOFDAY)
		return
	}

	dvh.onSwitch(PHASE_DAYTIMEVOTEFAILED)
}

func (dvh *daytimeVotingStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout()
}

func (dvh *daytimeVotingStageHandler) SetOnSwitch(onSwitch func(string)) {
	dvh.onSwitch = onSwitch
}

// 白天结束是瞬时阶段：应用淘汰、检查胜负，随即入夜
type endOfDayStageHandler struct {
	onSwitch func(string)
}

func NewEndOfDayStageHandler() *endOfDayStageHandler {
	return &endOfDayStageHandler{}
}

func (esh *endOfDayStageHandler) Stage() string {
	return PHASE_ENDOFDAY
}

func (esh *endOfDayStageHandler) OnEnter(ctx *GameContext) {
	if ctx.DayVictim != "" {
		applyDeaths(ctx, PHASE_ENDOFDAY, []string{ctx.DayVictim})
		ctx.DayVictim = ""
	}

	if winner, over := ctx.CheckWin(); over {
		ctx.Winner = winner
		esh.onSwitch(PHASE_OVER)
		return
	}

	esh.onSwitch(PHASE_NIGHTTIME)
}

func (esh *endOfDayStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, esh.onSwitch); handled {
		return err
	}

	return ErrWrongPhase
}

func (esh *endOfDayStageHandler) OnExit(ctx *GameContext) {
}

func (esh *endOfDayStageHandler) SetOnSwitch(onSwitch func(string)) {
	esh.onSwitch = onSwitch
}

// 白天投票流局是瞬时阶段：放弃当日淘汰，直接入夜
type dayVoteFailedStageHandler struct {
	onSwitch func(string)
}

func NewDayVoteFailedStageHandler() *dayVoteFailedStageHandler {
	return &dayVoteFailedStageHandler{}
}

func (fsh *dayVoteFailedStageHandler) Stage() string {
	return PHASE_DAYTIMEVOTEFAILED
}

func (fsh *dayVoteFailedStageHandler) OnEnter(ctx *GameContext) {
	broadcastPhase(ctx, "白天投票未达成一致，今天无人出局")

	fsh.onSwitch(PHASE_NIGHTTIME)
}

func (fsh *dayVoteFailedStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, fsh.onSwitch); handled {
		return err
	}

	return ErrWrongPhase
}

func (fsh *dayVoteFailedStageHandler) OnExit(ctx *GameContext) {
}

func (fsh *dayVoteFailedStageHandler) SetOnSwitch(onSwitch func(string)) {
	fsh.onSwitch = onSwitch
}
