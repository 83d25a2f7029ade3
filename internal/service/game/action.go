package game

// 夜间行动类型
const (
	NIGHT_ACTION_WEREWOLF_VOTE = "werewolfVote"
	NIGHT_ACTION_ELIXIR        = "elixir"
	NIGHT_ACTION_POISON        = "poison"
	NIGHT_ACTION_GUARD         = "guard"
	NIGHT_ACTION_PASS          = "pass"
)

// 加入会话：WebSocket 连接的首个请求。
// 玩家身份取自包装层（传输层校验过的令牌），不信任客户端负载
type JoinSessionRequest struct {
	SessionID string `json:"session_id"`
}

type JoinSessionResponse struct {
	SessionID string      `json:"session_id"`
	Seat      int         `json:"seat"`
	View      SessionView `json:"view"`
}

// 换座或起身：Seat 为空表示起身
type ToggleSeatRequest struct {
	Seat *int `json:"seat,omitempty"`
}

type SeatUpdateResponse struct {
	Seats []SeatView `json:"seats"`
}

type StartSessionRequest struct{}

// 游戏开始时对每个入座玩家单播的私有信息
type SessionStartedResponse struct {
	Role string `json:"role"`
	// 仅狼人收到：同伴的玩家 ID
	Packmates []string `json:"packmates,omitempty"`
}

// 房主提前收束讨论、进入白天投票
type OpenVoteRequest struct{}

// 白天投票：TargetID 为空表示弃权
type VoteRequest struct {
	TargetID string `json:"target_id"`
}

// 投票进度广播，票数为 0 的目标不会出现在 map 里
type VoteUpdateResponse struct {
	Votes map[string]int `json:"votes"`
	Cast  int            `json:"cast"`
}

type VoteResultResponse struct {
	Outcome  string         `json:"outcome"`
	TargetID string         `json:"target_id,omitempty"`
	Counts   map[string]int `json:"counts,omitempty"`
}

type NightActionRequest struct {
	Kind     string `json:"kind"`
	TargetID string `json:"target_id,omitempty"`
}

// 狼人夜间选票进度，只发给存活的狼人
type WolfVoteUpdateResponse struct {
	Ballots map[string]string `json:"ballots"`
}

type PhaseResponse struct {
	Phase     string `json:"phase"`
	DayNumber int    `json:"day_number"`
	Note      string `json:"note,omitempty"`
}

type DeathView struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

type DeathsResponse struct {
	Phase  string      `json:"phase"`
	Deaths []DeathView `json:"deaths"`
}

type SnapshotRequest struct{}

type TerminateRequest struct{}

type ExitSessionRequest struct{}

// 同一玩家从新连接重连时，旧连接收到该响应后应当主动断开
type KickedResponse struct {
	Reason string `json:"reason,omitempty"`
}

type ExitSessionResponse struct {
	LeftPlayerID   string `json:"left_player_id"`
	LeftPlayerName string `json:"left_player_name"`
}

type GameResultResponse struct {
	Winner string `json:"winner,omitempty"`
	Days   int    `json:"days"`
	// playerID -> 角色，终局时全量公开
	Roles map[string]string `json:"roles"`
}

type TimeoutRequest struct {
	Phase string `json:"phase"`
}
