package game

import (
	"errors"
	"testing"
)

// newNightMachine 构建一个处于夜晚阶段的 5 人局：
// p0 狼人、p1 女巫、p2 守卫、p3/p4 村民
func newNightMachine(t *testing.T, rules *Rules) *GameMachine {
	t.Helper()

	gm := newTestMachine(t, 5, rules)
	setRoles(gm, ROLE_WEREWOLF, ROLE_WITCH, ROLE_BODYGUARD, ROLE_VILLAGER, ROLE_VILLAGER)
	gm.ctx.DayNumber = 1
	jumpTo(gm, PHASE_NIGHTTIME)

	return gm
}

func TestResolveNightElixirSelfSave(t *testing.T) {
	cases := []struct {
		name      string
		variant   string
		dayNumber int
		wantSaved bool
	}{
		{"禁止自救", ELIXIR_CAN_NOT_SAVE_YOURSELF, 1, false},
		{"允许自救", ELIXIR_CAN_SAVE_YOURSELF, 3, true},
		{"仅首夜自救的首夜", ELIXIR_CAN_SAVE_YOURSELF_ONLY_1ST_NIGHT, 1, true},
		{"仅首夜自救的次夜", ELIXIR_CAN_SAVE_YOURSELF_ONLY_1ST_NIGHT, 2, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rules := quietRules()
			rules.Elixir = tc.variant

			gm := newNightMachine(t, &rules)
			gm.ctx.DayNumber = tc.dayNumber

			// 女巫成为受害者并对自己使用解药
			gm.ctx.Night.Victim = "p1"
			gm.ctx.Night.SaveIssued = true
			gm.ctx.Night.SaveTarget = "p1"
			gm.ctx.Night.SaveBy = "p1"

			result := ResolveNight(gm.ctx)

			if result.Saved != tc.wantSaved {
				t.Fatalf("Saved = %v，期望 %v", result.Saved, tc.wantSaved)
			}

			died := len(result.Deaths) == 1 && result.Deaths[0] == "p1"
			if tc.wantSaved && died {
				t.Fatal("被救下的受害者不应死亡")
			}
			if !tc.wantSaved && !died {
				t.Fatalf("无效自救时受害者应当死亡，得到 %v", result.Deaths)
			}
		})
	}
}

func TestResolveNightSaveOthersAlwaysWorks(t *testing.T) {
	gm := newNightMachine(t, nil)

	gm.ctx.Night.Victim = "p3"
	gm.ctx.Night.SaveIssued = true
	gm.ctx.Night.SaveTarget = "p3"
	gm.ctx.Night.SaveBy = "p1"

	result := ResolveNight(gm.ctx)

	if !result.Saved {
		t.Fatal("救他人不受自救变体限制")
	}
	if len(result.Deaths) != 0 {
		t.Fatalf("不应有人死亡，得到 %v", result.Deaths)
	}
}

func TestResolveNightGuardVariants(t *testing.T) {
	cases := []struct {
		name           string
		variant        string
		wantSacrificed bool
	}{
		{"守护成功且守卫牺牲", GUARD_DEAD_WHEN_GUARD_AND_SAVE, true},
		{"守护成功且守卫无恙", GUARD_NOT_DEAD_WHEN_GUARD_AND_SAVE, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rules := quietRules()
			rules.Bodyguard = tc.variant

			gm := newNightMachine(t, &rules)

			gm.ctx.Night.Victim = "p3"
			gm.ctx.Night.GuardIssued = true
			gm.ctx.Night.GuardTarget = "p3"
			gm.ctx.Night.GuardBy = "p2"

			result := ResolveNight(gm.ctx)

			if !result.Guarded {
				t.Fatal("守护目标与受害者重合时应当挡下击杀")
			}
			if result.GuardSacrificed != tc.wantSacrificed {
				t.Fatalf("GuardSacrificed = %v，期望 %v", result.GuardSacrificed, tc.wantSacrificed)
			}

			if tc.wantSacrificed {
				if len(result.Deaths) != 1 || result.Deaths[0] != "p2" {
					t.Fatalf("牺牲变体下应只有守卫死亡，得到 %v", result.Deaths)
				}
			} else if len(result.Deaths) != 0 {
				t.Fatalf("不应有人死亡，得到 %v", result.Deaths)
			}
		})
	}
}

func TestResolveNightPoisonIndependentOfKill(t *testing.T) {
	gm := newNightMachine(t, nil)

	// 击杀被守护挡下，毒药仍然生效
	gm.ctx.Night.Victim = "p3"
	gm.ctx.Night.GuardIssued = true
	gm.ctx.Night.GuardTarget = "p3"
	gm.ctx.Night.GuardBy = "p2"
	gm.ctx.Night.PoisonIssued = true
	gm.ctx.Night.PoisonTarget = "p4"
	gm.ctx.Night.PoisonBy = "p1"

	result := ResolveNight(gm.ctx)

	found := false
	for _, id := range result.Deaths {
		if id == "p3" {
			t.Fatal("被守护的受害者不应死亡")
		}
		if id == "p4" {
			found = true
		}
	}

	if !found {
		t.Fatalf("毒药目标应当死亡，得到 %v", result.Deaths)
	}
}

func TestResolveNightNoDuplicateDeaths(t *testing.T) {
	gm := newNightMachine(t, nil)

	// 毒药目标与狼人受害者是同一个人
	gm.ctx.Night.Victim = "p3"
	gm.ctx.Night.PoisonIssued = true
	gm.ctx.Night.PoisonTarget = "p3"
	gm.ctx.Night.PoisonBy = "p1"

	result := ResolveNight(gm.ctx)

	if len(result.Deaths) != 1 || result.Deaths[0] != "p3" {
		t.Fatalf("死亡列表应去重，得到 %v", result.Deaths)
	}
}

func TestNightActionRoleChecks(t *testing.T) {
	gm := newNightMachine(t, nil)

	// 村民不能投狼人票
	err := drive(gm, nightReq("p3", NIGHT_ACTION_WEREWOLF_VOTE, "p1"))
	if !errors.Is(err, ErrWrongRole) {
		t.Fatalf("期望 ErrWrongRole，得到 %v", err)
	}

	// 守卫不能用解药
	err = drive(gm, nightReq("p2", NIGHT_ACTION_ELIXIR, "p3"))
	if !errors.Is(err, ErrWrongRole) {
		t.Fatalf("期望 ErrWrongRole，得到 %v", err)
	}

	// 死人不能行动
	gm.ctx.Players["p0"].Alive = false
	err = drive(gm, nightReq("p0", NIGHT_ACTION_WEREWOLF_VOTE, "p1"))
	if !errors.Is(err, ErrDeadPlayer) {
		t.Fatalf("期望 ErrDeadPlayer，得到 %v", err)
	}
}

func TestPotionsAreOncePerGame(t *testing.T) {
	gm := newNightMachine(t, nil)

	if err := drive(gm, nightReq("p1", NIGHT_ACTION_ELIXIR, "p3")); err != nil {
		t.Fatalf("首次使用解药失败: %v", err)
	}

	// 下一晚再用解药被拒绝
	gm.ctx.Night = NewNightActions()

	err := drive(gm, nightReq("p1", NIGHT_ACTION_ELIXIR, "p4"))
	if !errors.Is(err, ErrElixirUsed) {
		t.Fatalf("期望 ErrElixirUsed，得到 %v", err)
	}

	// 毒药独立计数，仍然可用
	if err := drive(gm, nightReq("p1", NIGHT_ACTION_POISON, "p4")); err != nil {
		t.Fatalf("使用毒药失败: %v", err)
	}

	gm.ctx.Night = NewNightActions()

	err = drive(gm, nightReq("p1", NIGHT_ACTION_POISON, "p3"))
	if !errors.Is(err, ErrPoisonUsed) {
		t.Fatalf("期望 ErrPoisonUsed，得到 %v", err)
	}
}

func TestElixirPoisonConflictPolicy(t *testing.T) {
	// 禁止并用的变体下，后提交的行动被拒绝
	gm := newNightMachine(t, nil)

	if err := drive(gm, nightReq("p1", NIGHT_ACTION_ELIXIR, "p3")); err != nil {
		t.Fatalf("使用解药失败: %v", err)
	}

	err := drive(gm, nightReq("p1", NIGHT_ACTION_POISON, "p4"))
	if !errors.Is(err, ErrConflictingNightAction) {
		t.Fatalf("期望 ErrConflictingNightAction，得到 %v", err)
	}

	// 允许并用的变体下两种药同夜生效
	rules := quietRules()
	rules.Poison = POISON_CAN_USE_WITH_ELIXIR

	gm = newNightMachine(t, &rules)

	if err := drive(gm, nightReq("p1", NIGHT_ACTION_ELIXIR, "p3")); err != nil {
		t.Fatalf("使用解药失败: %v", err)
	}
	if err := drive(gm, nightReq("p1", NIGHT_ACTION_POISON, "p4")); err != nil {
		t.Fatalf("并用毒药失败: %v", err)
	}
}

func TestGuardCannotRepeatTarget(t *testing.T) {
	gm := newNightMachine(t, nil)
	gm.ctx.LastGuardTarget = "p3"

	err := drive(gm, nightReq("p2", NIGHT_ACTION_GUARD, "p3"))
	if !errors.Is(err, ErrGuardRepeat) {
		t.Fatalf("期望 ErrGuardRepeat，得到 %v", err)
	}

	if err := drive(gm, nightReq("p2", NIGHT_ACTION_GUARD, "p4")); err != nil {
		t.Fatalf("换目标守护失败: %v", err)
	}
}

func TestWolfBallotReplaced(t *testing.T) {
	gm := newNightMachine(t, nil)

	drive(gm, nightReq("p0", NIGHT_ACTION_WEREWOLF_VOTE, "p3"))
	drive(gm, nightReq("p0", NIGHT_ACTION_WEREWOLF_VOTE, "p4"))

	if got := gm.ctx.Night.WolfBallots["p0"]; got != "p4" {
		t.Fatalf("后票应覆盖前票，得到 %s", got)
	}
}
