package game

import "testing"

func seatRole(t *testing.T, seats []SeatView, playerID string) string {
	t.Helper()

	for _, s := range seats {
		if s.PlayerID == playerID {
			return s.Role
		}
	}

	t.Fatalf("快照中找不到玩家 %s", playerID)
	return ""
}

func TestViewRoleVisibility(t *testing.T) {
	gm := newTestMachine(t, 5, nil)
	setRoles(gm, ROLE_WEREWOLF, ROLE_WITCH, ROLE_BODYGUARD, ROLE_VILLAGER, ROLE_WEREWOLF)
	gm.ctx.NumWerewolves = 2
	jumpTo(gm, PHASE_DAYTIME)

	// 普通玩家只能看到自己的角色
	view := BuildView(gm.ctx, "p3")
	if view.YourRole != ROLE_VILLAGER {
		t.Fatalf("自己的角色 = %s，期望 %s", view.YourRole, ROLE_VILLAGER)
	}
	if got := seatRole(t, view.Seats, "p0"); got != "" {
		t.Fatalf("村民不应看到狼人的角色，得到 %s", got)
	}
	if len(view.Packmates) != 0 {
		t.Fatalf("村民不应有同伴列表: %v", view.Packmates)
	}

	// 狼人互认并且能看到同伴
	view = BuildView(gm.ctx, "p0")
	if got := seatRole(t, view.Seats, "p4"); got != ROLE_WEREWOLF {
		t.Fatalf("狼人应看到同伴的角色，得到 %s", got)
	}
	if len(view.Packmates) != 1 || view.Packmates[0] != "p4" {
		t.Fatalf("同伴列表 = %v，期望 [p4]", view.Packmates)
	}
}

func TestViewRevealsDeadRoleByRule(t *testing.T) {
	gm := newTestMachine(t, 5, nil)
	setRoles(gm, ROLE_WEREWOLF, ROLE_WITCH, ROLE_BODYGUARD, ROLE_VILLAGER, ROLE_VILLAGER)
	jumpTo(gm, PHASE_DAYTIME)

	gm.ctx.Players["p1"].Alive = false

	view := BuildView(gm.ctx, "p3")
	if got := seatRole(t, view.Seats, "p1"); got != ROLE_WITCH {
		t.Fatalf("死者角色应当公开，得到 %s", got)
	}

	// 关闭公开规则后死者角色保持隐藏
	gm.ctx.Rules.RevealRoleOnDeath = false

	view = BuildView(gm.ctx, "p3")
	if got := seatRole(t, view.Seats, "p1"); got != "" {
		t.Fatalf("死者角色不应公开，得到 %s", got)
	}
}

func TestViewHidesRolesInLobby(t *testing.T) {
	gm := newTestMachine(t, 5, nil)

	view := BuildView(gm.ctx, "p0")
	for _, s := range view.Seats {
		if s.Role != "" {
			t.Fatalf("组局阶段不应出现任何角色: %+v", s)
		}
	}
}

func TestViewRevealsAllAtGameOver(t *testing.T) {
	gm := newTestMachine(t, 5, nil)
	setRoles(gm, ROLE_WEREWOLF, ROLE_WITCH, ROLE_BODYGUARD, ROLE_VILLAGER, ROLE_VILLAGER)
	gm.ctx.Winner = WINNER_VILLAGERS
	jumpTo(gm, PHASE_OVER)

	view := BuildView(gm.ctx, "p3")
	if got := seatRole(t, view.Seats, "p0"); got != ROLE_WEREWOLF {
		t.Fatalf("终局应公开全部角色，得到 %s", got)
	}
	if view.Winner != WINNER_VILLAGERS {
		t.Fatalf("胜利方 = %s，期望 %s", view.Winner, WINNER_VILLAGERS)
	}
}
