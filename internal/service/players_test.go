package service

import (
	"errors"
	"testing"

	"werewolf-be/internal/service/game"
)

func TestPlayerRegistryBind(t *testing.T) {
	pr := NewPlayerRegistry()

	if err := pr.Bind("p1", "s1"); err != nil {
		t.Fatalf("首次绑定失败: %v", err)
	}

	// 重复绑定到同一会话是幂等的
	if err := pr.Bind("p1", "s1"); err != nil {
		t.Fatalf("重复绑定同一会话失败: %v", err)
	}

	// 绑定到其他会话被拒绝
	err := pr.Bind("p1", "s2")
	if !errors.Is(err, game.ErrAlreadyInSession) {
		t.Fatalf("期望 ErrAlreadyInSession，得到 %v", err)
	}

	if got := pr.SessionOf("p1"); got != "s1" {
		t.Fatalf("SessionOf = %s，期望 s1", got)
	}
}

func TestPlayerRegistryRelease(t *testing.T) {
	pr := NewPlayerRegistry()

	pr.Bind("p1", "s1")

	// 会话不匹配的解绑不生效
	pr.Release("p1", "s2")
	if got := pr.SessionOf("p1"); got != "s1" {
		t.Fatalf("错误会话的解绑不应生效，得到 %s", got)
	}

	pr.Release("p1", "s1")
	if got := pr.SessionOf("p1"); got != "" {
		t.Fatalf("解绑后应为空，得到 %s", got)
	}
}

func TestPlayerRegistryReleaseSession(t *testing.T) {
	pr := NewPlayerRegistry()

	pr.Bind("p1", "s1")
	pr.Bind("p2", "s1")
	pr.Bind("p3", "s2")

	pr.ReleaseSession("s1")

	if pr.SessionOf("p1") != "" || pr.SessionOf("p2") != "" {
		t.Fatal("会话解散后所有玩家都应被解绑")
	}
	if pr.SessionOf("p3") != "s2" {
		t.Fatal("其他会话的绑定不应受影响")
	}
}
