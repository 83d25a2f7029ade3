package dto

// CreateSessionRequest 创建会话时的板子配置，
// 规则字段为空则使用配置文件中的默认值
type CreateSessionRequest struct {
	MaxPlayers    int `json:"max_players"`
	NumWerewolves int `json:"num_werewolves"`

	Elixir        string   `json:"elixir,omitempty"`
	Poison        string   `json:"poison,omitempty"`
	Bodyguard     string   `json:"bodyguard,omitempty"`
	DayVotePolicy string   `json:"day_vote_policy,omitempty"`
	SpecialRoles  []string `json:"special_roles,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type SessionSummary struct {
	SessionID   string `json:"session_id"`
	Phase       string `json:"phase"`
	Connections int    `json:"connections"`
	MaxPlayers  int    `json:"max_players"`
}

type StatusResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}
