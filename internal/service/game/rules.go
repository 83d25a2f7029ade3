package game

// 解药变体：女巫能否自救
const (
	ELIXIR_CAN_NOT_SAVE_YOURSELF            = "canNotSaveYourself"
	ELIXIR_CAN_SAVE_YOURSELF                = "canSaveYourself"
	ELIXIR_CAN_SAVE_YOURSELF_ONLY_1ST_NIGHT = "canSaveYourselfOnly1stNight"
)

// 毒药变体：同一晚能否与解药并用
const (
	POISON_CAN_USE_WITH_ELIXIR     = "canUseWithElixir"
	POISON_CAN_NOT_USE_WITH_ELIXIR = "canNotUseWithElixir"
)

// 守卫变体：守护与击杀目标重合时守卫是否牺牲
const (
	GUARD_DEAD_WHEN_GUARD_AND_SAVE     = "deadWhenGuardAndSave"
	GUARD_NOT_DEAD_WHEN_GUARD_AND_SAVE = "notDeadWhenGuardAndSave"
)

// 白天投票的判定策略
const (
	POLICY_MAJORITY  = "majority"
	POLICY_PLURALITY = "plurality"
)

// Rules 是一局游戏的规则变体配置，在创建会话时确定一次，
// 之后按值传入各个判定函数，不可再修改
type Rules struct {
	Elixir    string
	Poison    string
	Bodyguard string

	// 白天投票的判定策略：过半数或相对多数
	DayVotePolicy string
	// 有效投票所需的最低参与比例（按存活玩家计，向上取整）
	QuorumFraction float64
	// 淘汰时是否公开死者角色
	RevealRoleOnDeath bool

	// 参与分配的特殊角色名单，按顺序加入角色集
	SpecialRoles []string

	// 各阶段的超时秒数，0 表示不启用超时
	DaytimeSeconds int
	VotingSeconds  int
	NightSeconds   int
}

func DefaultRules() Rules {
	return Rules{
		Elixir:            ELIXIR_CAN_NOT_SAVE_YOURSELF,
		Poison:            POISON_CAN_NOT_USE_WITH_ELIXIR,
		Bodyguard:         GUARD_DEAD_WHEN_GUARD_AND_SAVE,
		DayVotePolicy:     POLICY_PLURALITY,
		QuorumFraction:    0.5,
		RevealRoleOnDeath: true,
		SpecialRoles:      []string{ROLE_WITCH, ROLE_BODYGUARD},
		DaytimeSeconds:    120,
		VotingSeconds:     45,
		NightSeconds:      60,
	}
}
