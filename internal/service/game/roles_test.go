package game

import (
	"errors"
	"testing"
)

func TestValidateComposition(t *testing.T) {
	cases := []struct {
		name          string
		maxPlayers    int
		numWerewolves int
		wantErr       bool
	}{
		{"标准 5 人 1 狼", 5, 1, false},
		{"标准 8 人 3 狼", 8, 3, false},
		{"人数不足 4 人", 3, 1, true},
		{"狼人数量为 0", 5, 0, true},
		{"4 人 2 狼狼人非严格少数", 4, 2, true},
		{"6 人 3 狼狼人非严格少数", 6, 3, true},
		{"5 人 2 狼合法", 5, 2, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateComposition(tc.maxPlayers, tc.numWerewolves)

			if tc.wantErr && !errors.Is(err, ErrInvalidComposition) {
				t.Fatalf("期望 ErrInvalidComposition，得到 %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("不期望错误，得到 %v", err)
			}
		})
	}
}

func TestBuildRoleSet(t *testing.T) {
	roles, err := BuildRoleSet(6, 2, []string{ROLE_WITCH, ROLE_BODYGUARD})
	if err != nil {
		t.Fatalf("构建角色集失败: %v", err)
	}

	if len(roles) != 6 {
		t.Fatalf("角色集长度 = %d，期望 6", len(roles))
	}

	counts := make(map[string]int)
	for _, r := range roles {
		counts[r]++
	}

	if counts[ROLE_WEREWOLF] != 2 {
		t.Fatalf("狼人数量 = %d，期望 2", counts[ROLE_WEREWOLF])
	}
	if counts[ROLE_WITCH] != 1 || counts[ROLE_BODYGUARD] != 1 {
		t.Fatalf("特殊角色缺失: %v", counts)
	}
	if counts[ROLE_VILLAGER] != 2 {
		t.Fatalf("村民数量 = %d，期望 2", counts[ROLE_VILLAGER])
	}
}

func TestBuildRoleSetOverflow(t *testing.T) {
	_, err := BuildRoleSet(4, 3, []string{ROLE_WITCH, ROLE_BODYGUARD})
	if !errors.Is(err, ErrRoleSetMismatch) {
		t.Fatalf("期望 ErrRoleSetMismatch，得到 %v", err)
	}
}

func TestAssignRoles(t *testing.T) {
	gm := newTestMachine(t, 5, nil)

	if err := AssignRoles(gm.ctx); err != nil {
		t.Fatalf("分配角色失败: %v", err)
	}

	counts := make(map[string]int)
	for _, p := range gm.ctx.SeatedPlayers() {
		if !p.Alive {
			t.Fatalf("玩家 %s 分配后应当存活", p.ID)
		}
		counts[p.Role]++
	}

	if counts[ROLE_UNSET] != 0 {
		t.Fatalf("存在未分配角色的玩家: %v", counts)
	}
	if counts[ROLE_WEREWOLF] != gm.ctx.NumWerewolves {
		t.Fatalf("狼人数量 = %d，期望 %d", counts[ROLE_WEREWOLF], gm.ctx.NumWerewolves)
	}
}
