package game

import (
	"time"

	"go.uber.org/zap"
)

// 夜晚行动阶段：狼人投票选定击杀目标，
// 女巫与守卫提交技能，全员行动完毕或超时后进入夜间计票
type nighttimeStageHandler struct {
	onSwitch func(string)
}

func NewNighttimeStageHandler() *nighttimeStageHandler {
	return &nighttimeStageHandler{}
}

func (nsh *nighttimeStageHandler) Stage() string {
	return PHASE_NIGHTTIME
}

func (nsh *nighttimeStageHandler) OnEnter(ctx *GameContext) {
	ctx.Night = NewNightActions()

	broadcastPhase(ctx, "")

	ctx.SetTimeout(time.Duration(ctx.Rules.NightSeconds) * time.Second)
}

func (nsh *nighttimeStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, nsh.onSwitch); handled {
		return err
	}

	if nreq := TryUnwrapNightActionRequest(req); nreq != nil {
		if err := recordNightAction(ctx, req.PlayerID, nreq); err != nil {
			return err
		}

		// 边沿触发：最后一个需要行动的玩家行动完毕即收束夜晚
		if allNightActorsActed(ctx) {
			nsh.onSwitch(PHASE_NIGHTTIMEVOTING)
		}

		return nil
	}

	if treq := TryUnwrapTimeoutRequest(req); treq != nil {
		if treq.Phase == PHASE_NIGHTTIME {
			nsh.onSwitch(PHASE_NIGHTTIMEVOTING)
		}
		return nil
	}

	return ErrWrongPhase
}

func (nsh *nighttimeStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout()
}

func (nsh *nighttimeStageHandler) SetOnSwitch(onSwitch func(string)) {
	nsh.onSwitch = onSwitch
}

func recordNightAction(ctx *GameContext, playerID string, nreq *NightActionRequest) error {
	player, ok := ctx.Players[playerID]
	if !ok || ctx.SeatOf(playerID) < 0 {
		return ErrNotInSession
	}
	if !player.Alive {
		return ErrDeadPlayer
	}

	night := &ctx.Night

	switch nreq.Kind {
	case NIGHT_ACTION_WEREWOLF_VOTE:
		if !player.IsWerewolf() {
			return ErrWrongRole
		}
		if err := checkLivingTarget(ctx, nreq.TargetID); err != nil {
			return err
		}

		// 后票覆盖前票
		night.WolfBallots[playerID] = nreq.TargetID
		night.Acted[playerID] = true

		ctx.BroadcastWolves(WrapResponse(RESP_WOLF_VOTE, WolfVoteUpdateResponse{
			Ballots: night.WolfBallots,
		}))

		return nil

	case NIGHT_ACTION_ELIXIR:
		if player.Role != ROLE_WITCH {
			return ErrWrongRole
		}
		if ctx.ElixirUsed {
			return ErrElixirUsed
		}
		if night.PoisonIssued && ctx.Rules.Poison == POISON_CAN_NOT_USE_WITH_ELIXIR {
			// 统一策略：拒绝后提交的那个行动
			return ErrConflictingNightAction
		}
		if err := checkLivingTarget(ctx, nreq.TargetID); err != nil {
			return err
		}

		night.SaveIssued = true
		night.SaveTarget = nreq.TargetID
		night.SaveBy = playerID
		night.Acted[playerID] = true
		ctx.ElixirUsed = true

		ctx.UnicastResp(playerID, WrapResponse(RESP_NIGHT_ACTION, nreq))

		return nil

	case NIGHT_ACTION_POISON:
		if player.Role != ROLE_WITCH {
			return ErrWrongRole
		}
		if ctx.PoisonUsed {
			return ErrPoisonUsed
		}
		if night.SaveIssued && ctx.Rules.Poison == POISON_CAN_NOT_USE_WITH_ELIXIR {
			return ErrConflictingNightAction
		}
		if err := checkLivingTarget(ctx, nreq.TargetID); err != nil {
			return err
		}

		night.PoisonIssued = true
		night.PoisonTarget = nreq.TargetID
		night.PoisonBy = playerID
		night.Acted[playerID] = true
		ctx.PoisonUsed = true

		ctx.UnicastResp(playerID, WrapResponse(RESP_NIGHT_ACTION, nreq))

		return nil

	case NIGHT_ACTION_GUARD:
		if player.Role != ROLE_BODYGUARD {
			return ErrWrongRole
		}
		if err := checkLivingTarget(ctx, nreq.TargetID); err != nil {
			return err
		}
		if nreq.TargetID == ctx.LastGuardTarget {
			return ErrGuardRepeat
		}

		night.GuardIssued = true
		night.GuardTarget = nreq.TargetID
		night.GuardBy = playerID
		night.Acted[playerID] = true

		ctx.UnicastResp(playerID, WrapResponse(RESP_NIGHT_ACTION, nreq))

		return nil

	case NIGHT_ACTION_PASS:
		night.Acted[playerID] = true

		ctx.UnicastResp(playerID, WrapResponse(RESP_NIGHT_ACTION, nreq))

		return nil

	default:
		return ErrInvalidBallot
	}
}

func checkLivingTarget(ctx *GameContext, targetID string) error {
	if targetID == "" {
		return ErrInvalidBallot
	}

	target, ok := ctx.Players[targetID]
	if !ok || !target.Alive {
		return ErrInvalidBallot
	}

	return nil
}

// allNightActorsActed 检查所有夜间需要行动的存活玩家
// （狼人、女巫、守卫）是否都已行动或明确跳过
func allNightActorsActed(ctx *GameContext) bool {
	for _, p := range ctx.LivingPlayers() {
		switch p.Role {
		case ROLE_WEREWOLF, ROLE_WITCH, ROLE_BODYGUARD:
			if !ctx.Night.Acted[p.ID] {
				return false
			}
		}
	}

	return true
}

// 夜间计票是瞬时阶段：对狼人选票按相对多数计票，
// 唯一领先者成为受害者，平票或参与不足则今晚无人被袭击
type nighttimeVotingStageHandler struct {
	onSwitch func(string)
}

func NewNighttimeVotingStageHandler() *nighttimeVotingStageHandler {
	return &nighttimeVotingStageHandler{}
}

func (nvh *nighttimeVotingStageHandler) Stage() string {
	return PHASE_NIGHTTIMEVOTING
}

func (nvh *nighttimeVotingStageHandler) OnEnter(ctx *GameContext) {
	wolves := make(map[string]bool)
	for _, wolf := range ctx.LivingWerewolves() {
		wolves[wolf.ID] = true
	}

	outcome := Tally(
		ctx.Night.WolfBallots,
		wolves,
		POLICY_PLURALITY,
		ctx.Rules.QuorumFraction,
	)

	ctx.BroadcastWolves(WrapResponse(RESP_VOTE_RESULT, VoteResultResponse{
		Outcome:  outcome.Kind,
		TargetID: outcome.Target,
		Counts:   outcome.Counts,
	}))

	zap.L().Info(
		"狼人夜间计票完成",
		zap.String("session_id", ctx.SessionID),
		zap.Int("day", ctx.DayNumber),
		zap.String("outcome", outcome.Kind),
	)

	if outcome.Kind == OUTCOME_DECISIVE {
		ctx.Night.Victim = outcome.Target
		ctx.Night.VictimFixed = true
		nvh.onSwitch(PHASE_ENDOFNIGHT)
		return
	}

	nvh.onSwitch(PHASE_NIGHTTIMEVOTEFAILED)
}

func (nvh *nighttimeVotingStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, nvh.onSwitch); handled {
		return err
	}

	return ErrWrongPhase
}

func (nvh *nighttimeVotingStageHandler) OnExit(ctx *GameContext) {
}

func (nvh *nighttimeVotingStageHandler) SetOnSwitch(onSwitch func(string)) {
	nvh.onSwitch = onSwitch
}

// 狼人未达成一致是瞬时阶段：今晚没有袭击目标，
// 其余技能仍正常结算
type nightVoteFailedStageHandler struct {
	onSwitch func(string)
}

func NewNightVoteFailedStageHandler() *nightVoteFailedStageHandler {
	return &nightVoteFailedStageHandler{}
}

func (fsh *nightVoteFailedStageHandler) Stage() string {
	return PHASE_NIGHTTIMEVOTEFAILED
}

func (fsh *nightVoteFailedStageHandler) OnEnter(ctx *GameContext) {
	ctx.Night.Victim = ""
	ctx.Night.VictimFixed = false

	fsh.onSwitch(PHASE_ENDOFNIGHT)
}

func (fsh *nightVoteFailedStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, fsh.onSwitch); handled {
		return err
	}

	return ErrWrongPhase
}

func (fsh *nightVoteFailedStageHandler) OnExit(ctx *GameContext) {
}

func (fsh *nightVoteFailedStageHandler) SetOnSwitch(onSwitch func(string)) {
	fsh.onSwitch = onSwitch
}

// 夜晚结束是瞬时阶段：结算技能与击杀、检查胜负，随即天亮
type endOfNightStageHandler struct {
	onSwitch func(string)
}

func NewEndOfNightStageHandler() *endOfNightStageHandler {
	return &endOfNightStageHandler{}
}

func (esh *endOfNightStageHandler) Stage() string {
	return PHASE_ENDOFNIGHT
}

func (esh *endOfNightStageHandler) OnEnter(ctx *GameContext) {
	result := ResolveNight(ctx)

	applyDeaths(ctx, PHASE_ENDOFNIGHT, result.Deaths)

	if ctx.Night.GuardIssued {
		ctx.LastGuardTarget = ctx.Night.GuardTarget
	} else {
		ctx.LastGuardTarget = ""
	}

	zap.L().Info(
		"夜晚结算完成",
		zap.String("session_id", ctx.SessionID),
		zap.Int("day", ctx.DayNumber),
		zap.Strings("deaths", result.Deaths),
		zap.Bool("saved", result.Saved),
		zap.Bool("guarded", result.Guarded),
	)

	if winner, over := ctx.CheckWin(); over {
		ctx.Winner = winner
		esh.onSwitch(PHASE_OVER)
		return
	}

	esh.onSwitch(PHASE_DAYTIME)
}

func (esh *endOfNightStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, esh.onSwitch); handled {
		return err
	}

	return ErrWrongPhase
}

func (esh *endOfNightStageHandler) OnExit(ctx *GameContext) {
}

func (esh *endOfNightStageHandler) SetOnSwitch(onSwitch func(string)) {
	esh.onSwitch = onSwitch
}
