package game

import "math"

// 计票结果
const (
	OUTCOME_DECISIVE  = "decisive"
	OUTCOME_TIE       = "tie"
	OUTCOME_NO_QUORUM = "noQuorum"
)

type VoteOutcome struct {
	Kind   string
	Target string
	// targetID -> 票数，弃权不计入
	Counts map[string]int
	// 实际投出的选票数（含弃权）
	Cast int
}

// Tally 对一个投票子阶段计票。
// ballots 是 voterID -> targetID 的选票，空目标表示弃权；
// 非存活玩家的选票在提交时就被拒绝，这里再次过滤兜底。
// 参与人数不足法定比例时返回 NoQuorum；
// majority 策略要求唯一领先者获得过半有效票，plurality 只要求唯一领先；
// 两个以上目标并列领先、或没有任何有效票时返回 Tie
func Tally(ballots map[string]string, living map[string]bool, policy string, quorumFraction float64) VoteOutcome {
	counts := make(map[string]int)
	cast := 0
	valid := 0

	for voterID, targetID := range ballots {
		if !living[voterID] {
			continue
		}

		cast++

		if targetID == "" {
			continue
		}

		counts[targetID]++
		valid++
	}

	outcome := VoteOutcome{Counts: counts, Cast: cast}

	minCast := int(math.Ceil(quorumFraction * float64(len(living))))
	if cast < minCast {
		outcome.Kind = OUTCOME_NO_QUORUM
		return outcome
	}

	leader := ""
	leaderCount := 0
	tied := false

	for targetID, n := range counts {
		switch {
		case n > leaderCount:
			leader = targetID
			leaderCount = n
			tied = false
		case n == leaderCount:
			tied = true
		}
	}

	if leader == "" || tied {
		outcome.Kind = OUTCOME_TIE
		return outcome
	}

	if policy == POLICY_MAJORITY && leaderCount*2 <= valid {
		// 没有目标拿到过半有效票，视同平票处理
		outcome.Kind = OUTCOME_TIE
		return outcome
	}

	outcome.Kind = OUTCOME_DECISIVE
	outcome.Target = leader

	return outcome
}
