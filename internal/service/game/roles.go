package game

import (
	"math/rand"

	"go.uber.org/zap"
)

// BuildRoleSet 生成与座位数一致的角色集：
// numWerewolves 个狼人 + 配置的特殊角色 + 其余村民。
// 狼人与特殊角色之和超过座位数时返回 ErrRoleSetMismatch
func BuildRoleSet(maxPlayers, numWerewolves int, specialRoles []string) ([]string, error) {
	if numWerewolves+len(specialRoles) > maxPlayers {
		return nil, ErrRoleSetMismatch
	}

	roles := make([]string, 0, maxPlayers)

	for i := 0; i < numWerewolves; i++ {
		roles = append(roles, ROLE_WEREWOLF)
	}

	roles = append(roles, specialRoles...)

	for len(roles) < maxPlayers {
		roles = append(roles, ROLE_VILLAGER)
	}

	return roles, nil
}

// AssignRoles 均匀洗牌角色集后按座位顺序一一分配给入座玩家，
// 并把所有人标记为存活
func AssignRoles(ctx *GameContext) error {
	roles, err := BuildRoleSet(ctx.MaxPlayers, ctx.NumWerewolves, ctx.Rules.SpecialRoles)
	if err != nil {
		return err
	}

	rand.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	seated := ctx.SeatedPlayers()
	if len(seated) != len(roles) {
		// startSession 已经校验过满员，这里属于配置错误
		return ErrRoleSetMismatch
	}

	for i, p := range seated {
		p.Role = roles[i]
		p.Alive = true
	}

	zap.L().Info(
		"角色分配完成",
		zap.String("session_id", ctx.SessionID),
		zap.Int("players", len(seated)),
		zap.Int("werewolves", ctx.NumWerewolves),
	)

	return nil
}
