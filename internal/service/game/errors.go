package game

import (
	"errors"
	"fmt"
)

// 校验类与状态冲突类错误，调用方用 errors.Is 匹配，
// 对外通过 ErrCode 映射为稳定的错误码
var (
	ErrInvalidComposition = errors.New("对局人数配置不合法")
	// 细分的人数配置错误，均可用 ErrInvalidComposition 匹配
	ErrNotEnoughPlayers    = fmt.Errorf("%w: 座位数至少为 4", ErrInvalidComposition)
	ErrNotEnoughWerewolves = fmt.Errorf("%w: 狼人数量至少为 1", ErrInvalidComposition)
	ErrTooManyWerewolves   = fmt.Errorf("%w: 狼人必须是严格少数", ErrInvalidComposition)

	ErrAlreadyInSession = errors.New("玩家已在其他对局中占座")
	ErrSessionFull      = errors.New("对局座位已满")
	ErrSessionStarted   = errors.New("对局已经开始")
	ErrSessionNotFound  = errors.New("对局不存在")
	ErrNotInSession     = errors.New("玩家不在该对局中")
	ErrSeatOccupied     = errors.New("该座位已被其他玩家占用")
	ErrInvalidSeat      = errors.New("座位编号不合法")
	ErrNotSeated        = errors.New("玩家未入座")
	ErrNotOwner         = errors.New("只有房主可以执行该操作")
	ErrNotFull          = errors.New("座位未满员，无法开始")

	ErrInvalidBallot = errors.New("选票不合法")
	ErrWrongPhase    = errors.New("当前阶段不支持该请求类型")
	ErrDeadPlayer    = errors.New("已出局的玩家不能行动")
	ErrWrongRole     = errors.New("当前角色无法使用该技能")
	ErrGameOver      = errors.New("游戏已结束")

	// 配置违规类错误，面向运维而非静默绕过
	ErrRoleSetMismatch        = errors.New("角色集与座位数不匹配")
	ErrConflictingNightAction = errors.New("同一晚不能同时使用解药和毒药")

	ErrElixirUsed  = errors.New("解药已经用过了")
	ErrPoisonUsed  = errors.New("毒药已经用过了")
	ErrGuardRepeat = errors.New("不能连续两晚守护同一目标")
)

// ErrCode 把错误映射为下发给客户端的稳定错误码
func ErrCode(err error) string {
	switch {
	case errors.Is(err, ErrNotEnoughPlayers):
		return "notEnoughPlayers"
	case errors.Is(err, ErrNotEnoughWerewolves):
		return "notEnoughWerewolves"
	case errors.Is(err, ErrTooManyWerewolves):
		return "tooManyWerewolves"
	case errors.Is(err, ErrInvalidComposition):
		return "invalidComposition"
	case errors.Is(err, ErrAlreadyInSession):
		return "alreadyInSession"
	case errors.Is(err, ErrSessionFull):
		return "sessionFull"
	case errors.Is(err, ErrSessionStarted):
		return "sessionAlreadyStarted"
	case errors.Is(err, ErrSessionNotFound):
		return "sessionNotFound"
	case errors.Is(err, ErrNotInSession):
		return "notInSession"
	case errors.Is(err, ErrSeatOccupied):
		return "seatOccupied"
	case errors.Is(err, ErrInvalidSeat):
		return "invalidSeat"
	case errors.Is(err, ErrNotSeated):
		return "notSeated"
	case errors.Is(err, ErrNotOwner):
		return "notOwner"
	case errors.Is(err, ErrNotFull):
		return "notFull"
	case errors.Is(err, ErrInvalidBallot):
		return "invalidBallot"
	case errors.Is(err, ErrWrongPhase):
		return "wrongPhase"
	case errors.Is(err, ErrDeadPlayer):
		return "deadPlayer"
	case errors.Is(err, ErrWrongRole):
		return "wrongRole"
	case errors.Is(err, ErrGameOver):
		return "gameOver"
	case errors.Is(err, ErrRoleSetMismatch):
		return "roleSetMismatch"
	case errors.Is(err, ErrConflictingNightAction):
		return "conflictingNightAction"
	case errors.Is(err, ErrElixirUsed):
		return "elixirUsed"
	case errors.Is(err, ErrPoisonUsed):
		return "poisonUsed"
	case errors.Is(err, ErrGuardRepeat):
		return "guardRepeat"
	default:
		return "internalError"
	}
}

// ValidateComposition 校验对局人数配置：
// 至少 4 个座位、至少 1 个狼人、狼人必须是严格少数
func ValidateComposition(maxPlayers, numWerewolves int) error {
	if maxPlayers < 4 {
		return ErrNotEnoughPlayers
	}
	if numWerewolves < 1 {
		return ErrNotEnoughWerewolves
	}
	if maxPlayers <= numWerewolves*2 {
		return ErrTooManyWerewolves
	}

	return nil
}
