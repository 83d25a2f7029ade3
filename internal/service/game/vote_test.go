package game

import "testing"

func livingSet(ids ...string) map[string]bool {
	living := make(map[string]bool)
	for _, id := range ids {
		living[id] = true
	}
	return living
}

func TestTally(t *testing.T) {
	cases := []struct {
		name       string
		ballots    map[string]string
		living     map[string]bool
		policy     string
		quorum     float64
		wantKind   string
		wantTarget string
	}{
		{
			name:       "唯一领先者胜出",
			ballots:    map[string]string{"p1": "p0", "p2": "p0", "p3": "p0", "p4": "p1", "p0": "p1"},
			living:     livingSet("p0", "p1", "p2", "p3", "p4"),
			policy:     POLICY_PLURALITY,
			quorum:     0.5,
			wantKind:   OUTCOME_DECISIVE,
			wantTarget: "p0",
		},
		{
			name:     "两个目标并列领先为平票",
			ballots:  map[string]string{"p1": "p0", "p2": "p0", "p3": "p4", "p4": "p4"},
			living:   livingSet("p0", "p1", "p2", "p3", "p4"),
			policy:   POLICY_PLURALITY,
			quorum:   0.5,
			wantKind: OUTCOME_TIE,
		},
		{
			name:     "参与人数不足法定比例",
			ballots:  map[string]string{"p1": "p0"},
			living:   livingSet("p0", "p1", "p2", "p3", "p4"),
			policy:   POLICY_PLURALITY,
			quorum:   0.5,
			wantKind: OUTCOME_NO_QUORUM,
		},
		{
			name:     "弃权计入参与但不计入票数",
			ballots:  map[string]string{"p1": "", "p2": "", "p3": ""},
			living:   livingSet("p0", "p1", "p2", "p3", "p4"),
			policy:   POLICY_PLURALITY,
			quorum:   0.5,
			wantKind: OUTCOME_TIE,
		},
		{
			name:       "过半策略下过半有效票胜出",
			ballots:    map[string]string{"p1": "p0", "p2": "p0", "p3": "p0", "p4": "p1", "p0": ""},
			living:     livingSet("p0", "p1", "p2", "p3", "p4"),
			policy:     POLICY_MAJORITY,
			quorum:     0.5,
			wantKind:   OUTCOME_DECISIVE,
			wantTarget: "p0",
		},
		{
			name:     "过半策略下相对多数不够视同平票",
			ballots:  map[string]string{"p1": "p0", "p2": "p0", "p3": "p3", "p4": "p4", "p0": "p4"},
			living:   livingSet("p0", "p1", "p2", "p3", "p4"),
			policy:   POLICY_MAJORITY,
			quorum:   0.5,
			wantKind: OUTCOME_TIE,
		},
		{
			name:     "死人的选票被过滤",
			ballots:  map[string]string{"p1": "p0", "dead": "p1"},
			living:   livingSet("p0", "p1"),
			policy:   POLICY_PLURALITY,
			quorum:   0.5,
			wantKind: OUTCOME_DECISIVE,
			// dead 的票不存在，p0 唯一领先
			wantTarget: "p0",
		},
		{
			name:     "没有任何有效票为平票",
			ballots:  map[string]string{"p0": "", "p1": "", "p2": "", "p3": "", "p4": ""},
			living:   livingSet("p0", "p1", "p2", "p3", "p4"),
			policy:   POLICY_PLURALITY,
			quorum:   0.5,
			wantKind: OUTCOME_TIE,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome := Tally(tc.ballots, tc.living, tc.policy, tc.quorum)

			if outcome.Kind != tc.wantKind {
				t.Fatalf("计票结果 = %s，期望 %s", outcome.Kind, tc.wantKind)
			}
			if outcome.Target != tc.wantTarget {
				t.Fatalf("计票目标 = %s，期望 %s", outcome.Target, tc.wantTarget)
			}
		})
	}
}

func TestTallyQuorumCounting(t *testing.T) {
	// 5 个存活玩家、法定比例 0.5，最低参与 3 人
	living := livingSet("p0", "p1", "p2", "p3", "p4")

	two := map[string]string{"p1": "p0", "p2": "p0"}
	if got := Tally(two, living, POLICY_PLURALITY, 0.5); got.Kind != OUTCOME_NO_QUORUM {
		t.Fatalf("2 人参与应当流局，得到 %s", got.Kind)
	}

	three := map[string]string{"p1": "p0", "p2": "p0", "p3": ""}
	if got := Tally(three, living, POLICY_PLURALITY, 0.5); got.Kind != OUTCOME_DECISIVE {
		t.Fatalf("3 人参与（含弃权）应当有效，得到 %s", got.Kind)
	}
}
