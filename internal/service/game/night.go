package game

// NightResult 是一晚的最终结算
type NightResult struct {
	// 本晚死亡的玩家 ID，已去重，按 受害者/守卫/毒杀 顺序
	Deaths []string
	// 受害者被解药救下
	Saved bool
	// 受害者被守护挡下
	Guarded bool
	// 守卫因牺牲规则死亡
	GuardSacrificed bool
}

// ResolveNight 在狼人目标固定之后、夜晚结束之前调用一次，
// 按规则变体结算解药、守护与毒药对狼人击杀的影响。
// 解药与毒药的同夜冲突在提交时已经按变体拒绝，这里不再出现
func ResolveNight(ctx *GameContext) NightResult {
	night := &ctx.Night
	victim := night.Victim

	var result NightResult

	// 解药：按变体校验自救，无效的自救视同未使用解药
	if victim != "" && night.SaveIssued && night.SaveTarget == victim {
		valid := true

		if night.SaveTarget == night.SaveBy {
			switch ctx.Rules.Elixir {
			case ELIXIR_CAN_NOT_SAVE_YOURSELF:
				valid = false
			case ELIXIR_CAN_SAVE_YOURSELF_ONLY_1ST_NIGHT:
				valid = ctx.DayNumber == 1
			}
		}

		if valid {
			result.Saved = true
		}
	}

	// 守护：目标与受害者重合时受害者存活，
	// 牺牲变体下守卫本人死亡
	if victim != "" && night.GuardIssued && night.GuardTarget == victim {
		result.Guarded = true

		if ctx.Rules.Bodyguard == GUARD_DEAD_WHEN_GUARD_AND_SAVE {
			result.GuardSacrificed = true
		}
	}

	dying := make(map[string]bool)

	if victim != "" && !result.Saved && !result.Guarded {
		dying[victim] = true
		result.Deaths = append(result.Deaths, victim)
	}

	if result.GuardSacrificed && !dying[night.GuardBy] {
		dying[night.GuardBy] = true
		result.Deaths = append(result.Deaths, night.GuardBy)
	}

	// 毒药独立于击杀与解药结算
	if night.PoisonIssued && night.PoisonTarget != "" && !dying[night.PoisonTarget] {
		if p, ok := ctx.Players[night.PoisonTarget]; ok && p.Alive {
			dying[night.PoisonTarget] = true
			result.Deaths = append(result.Deaths, night.PoisonTarget)
		}
	}

	return result
}
