package game

// 玩家角色
const (
	ROLE_UNSET     = "Unset"
	ROLE_WEREWOLF  = "Werewolf"
	ROLE_VILLAGER  = "Villager"
	ROLE_WITCH     = "Witch"
	ROLE_BODYGUARD = "Bodyguard"
)

// 胜利方
const (
	WINNER_VILLAGERS  = "Villagers"
	WINNER_WEREWOLVES = "Werewolves"
)

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`

	Alive     bool `json:"alive"`
	Connected bool `json:"connected"`

	RespCh chan ResponseWrapper `json:"-"`
}

// IsWerewolf 狼人阵营判定，用于胜负检查
func (p *Player) IsWerewolf() bool {
	return p.Role == ROLE_WEREWOLF
}

// NightActions 是每晚的临时行动记录，进入夜晚时整体重置
type NightActions struct {
	// 狼人的击杀选票，voterID -> targetID
	WolfBallots map[string]string
	// 夜间已行动（或明确跳过）的玩家
	Acted map[string]bool

	// 狼人计票后固定下来的受害者，可能为空（狼人未达成一致）
	Victim      string
	VictimFixed bool

	SaveIssued bool
	SaveTarget string
	SaveBy     string

	PoisonIssued bool
	PoisonTarget string
	PoisonBy     string

	GuardIssued bool
	GuardTarget string
	GuardBy     string
}

func NewNightActions() NightActions {
	return NightActions{
		WolfBallots: make(map[string]string),
		Acted:       make(map[string]bool),
	}
}

// GameRecord 是终局归档的数据，由可选的 Archiver 持久化
type GameRecord struct {
	SessionID     string
	Winner        string
	Days          int
	MaxPlayers    int
	NumWerewolves int
	// playerID -> 角色
	Roles map[string]string
}

// SeatRegistry 记录玩家当前占座的会话，保证一个玩家同一时间
// 只能在一个未结束的对局中占座
type SeatRegistry interface {
	// Bind 在玩家已绑定到其他会话时返回 ErrAlreadyInSession
	Bind(playerID, sessionID string) error
	Release(playerID, sessionID string)
	ReleaseSession(sessionID string)
}

// Archiver 在对局结束时归档对局记录，允许为 nil（不持久化）
type Archiver interface {
	SaveRecord(rec GameRecord) error
}
