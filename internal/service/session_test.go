package service

import (
	"errors"
	"testing"

	"werewolf-be/internal/config"
	"werewolf-be/internal/service/dto"
	"werewolf-be/internal/service/game"
)

func newTestService(t *testing.T) *SessionService {
	t.Helper()

	svc := NewSessionService(config.RulesConfig{}, NewPlayerRegistry(), nil)
	t.Cleanup(svc.Close)

	return svc
}

func TestCreateSessionValidatesComposition(t *testing.T) {
	svc := newTestService(t)
	owner := game.Player{ID: "p0", Name: "房主"}

	cases := []struct {
		name string
		req  dto.CreateSessionRequest
	}{
		{"人数不足", dto.CreateSessionRequest{MaxPlayers: 3, NumWerewolves: 1}},
		{"狼人为零", dto.CreateSessionRequest{MaxPlayers: 5, NumWerewolves: 0}},
		{"狼人非严格少数", dto.CreateSessionRequest{MaxPlayers: 4, NumWerewolves: 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSession(owner, tc.req)
			if !errors.Is(err, game.ErrInvalidComposition) {
				t.Fatalf("期望 ErrInvalidComposition，得到 %v", err)
			}
		})
	}
}

func TestCreateSessionAndLookup(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.CreateSession(
		game.Player{ID: "p0", Name: "房主"},
		dto.CreateSessionRequest{MaxPlayers: 5, NumWerewolves: 1},
	)
	if err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("会话 ID 不应为空")
	}

	gm, err := svc.Machine(resp.SessionID)
	if err != nil {
		t.Fatalf("查找会话失败: %v", err)
	}
	if gm.SessionID() != resp.SessionID {
		t.Fatalf("会话 ID 不一致: %s != %s", gm.SessionID(), resp.SessionID)
	}

	if _, err := svc.Machine("不存在的会话"); !errors.Is(err, game.ErrSessionNotFound) {
		t.Fatalf("期望 ErrSessionNotFound，得到 %v", err)
	}
}

func TestCreateSessionRejectsBoundOwner(t *testing.T) {
	svc := newTestService(t)
	owner := game.Player{ID: "p0", Name: "房主"}

	if _, err := svc.CreateSession(owner, dto.CreateSessionRequest{
		MaxPlayers: 5, NumWerewolves: 1,
	}); err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}

	// 已在会话中占座的玩家不能再开新局
	_, err := svc.CreateSession(owner, dto.CreateSessionRequest{
		MaxPlayers: 5, NumWerewolves: 1,
	})
	if !errors.Is(err, game.ErrAlreadyInSession) {
		t.Fatalf("期望 ErrAlreadyInSession，得到 %v", err)
	}
}

func TestSummaries(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.CreateSession(
		game.Player{ID: "p0", Name: "房主"},
		dto.CreateSessionRequest{MaxPlayers: 6, NumWerewolves: 2},
	)
	if err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}

	summaries := svc.Summaries()
	if len(summaries) != 1 {
		t.Fatalf("会话数 = %d，期望 1", len(summaries))
	}

	s := summaries[0]
	if s.SessionID != resp.SessionID {
		t.Fatalf("会话 ID = %s，期望 %s", s.SessionID, resp.SessionID)
	}
	if s.Phase != "lobby" {
		t.Fatalf("阶段 = %s，期望 lobby", s.Phase)
	}
	if s.MaxPlayers != 6 {
		t.Fatalf("座位数 = %d，期望 6", s.MaxPlayers)
	}
}

func TestMergeRules(t *testing.T) {
	reveal := false

	merged := mergeRules(game.DefaultRules(), config.RulesConfig{
		Elixir:         game.ELIXIR_CAN_SAVE_YOURSELF,
		DayVotePolicy:  game.POLICY_MAJORITY,
		QuorumFraction: 0.75,
		RevealRole:     &reveal,
	})

	if merged.Elixir != game.ELIXIR_CAN_SAVE_YOURSELF {
		t.Fatalf("解药变体 = %s", merged.Elixir)
	}
	if merged.DayVotePolicy != game.POLICY_MAJORITY {
		t.Fatalf("投票策略 = %s", merged.DayVotePolicy)
	}
	if merged.QuorumFraction != 0.75 {
		t.Fatalf("法定比例 = %v", merged.QuorumFraction)
	}
	if merged.RevealRoleOnDeath {
		t.Fatal("公开规则应被覆盖为 false")
	}

	// 未设置的字段保持默认值
	if merged.Poison != game.POISON_CAN_NOT_USE_WITH_ELIXIR {
		t.Fatalf("毒药变体 = %s", merged.Poison)
	}
	if merged.DaytimeSeconds != 120 {
		t.Fatalf("白天超时 = %d", merged.DaytimeSeconds)
	}
}
