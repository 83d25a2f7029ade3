package game

// SeatView 是单个座位在快照中的投影
type SeatView struct {
	Index      int    `json:"index"`
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	Alive      bool   `json:"alive,omitempty"`
	Connected  bool   `json:"connected,omitempty"`
	// 仅在允许观察者看到时填充
	Role string `json:"role,omitempty"`
}

// SessionView 是发给某个玩家的会话快照，
// 其他玩家的角色只在允许的情况下出现
type SessionView struct {
	SessionID     string `json:"session_id"`
	OwnerID       string `json:"owner_id"`
	Phase         string `json:"phase"`
	DayNumber     int    `json:"day_number"`
	MaxPlayers    int    `json:"max_players"`
	NumWerewolves int    `json:"num_werewolves"`

	Seats []SeatView `json:"seats"`

	YourSeat int    `json:"your_seat"`
	YourRole string `json:"your_role,omitempty"`
	// 仅狼人可见：存活同伴的玩家 ID
	Packmates []string `json:"packmates,omitempty"`

	Winner string `json:"winner,omitempty"`
}

// roleVisibleTo 判断 target 的角色是否对 viewer 公开：
// 自己的角色、终局全量公开、按配置公开的死者角色、狼人互认
func roleVisibleTo(ctx *GameContext, viewer, target *Player) bool {
	if viewer != nil && viewer.ID == target.ID {
		return true
	}
	if ctx.Phase == PHASE_OVER {
		return true
	}
	if !target.Alive && ctx.Rules.RevealRoleOnDeath {
		return true
	}
	if viewer != nil && viewer.IsWerewolf() && target.IsWerewolf() {
		return true
	}

	return false
}

// BuildView 构建 viewerID 视角的快照
func BuildView(ctx *GameContext, viewerID string) SessionView {
	viewer := ctx.Players[viewerID]

	view := SessionView{
		SessionID:     ctx.SessionID,
		OwnerID:       ctx.OwnerID,
		Phase:         ctx.Phase,
		DayNumber:     ctx.DayNumber,
		MaxPlayers:    ctx.MaxPlayers,
		NumWerewolves: ctx.NumWerewolves,
		Seats:         BuildSeatViews(ctx, viewerID),
		YourSeat:      ctx.SeatOf(viewerID),
		Winner:        ctx.Winner,
	}

	if viewer != nil {
		view.YourRole = viewer.Role

		if viewer.IsWerewolf() {
			for _, wolf := range ctx.LivingWerewolves() {
				if wolf.ID != viewerID {
					view.Packmates = append(view.Packmates, wolf.ID)
				}
			}
		}
	}

	return view
}

func BuildSeatViews(ctx *GameContext, viewerID string) []SeatView {
	viewer := ctx.Players[viewerID]

	seats := make([]SeatView, len(ctx.Seats))
	for i, id := range ctx.Seats {
		seats[i] = SeatView{Index: i}

		if id == "" {
			continue
		}

		p, ok := ctx.Players[id]
		if !ok {
			continue
		}

		seats[i].PlayerID = p.ID
		seats[i].PlayerName = p.Name
		seats[i].Alive = p.Alive
		seats[i].Connected = p.Connected

		if ctx.Phase != PHASE_LOBBY && roleVisibleTo(ctx, viewer, p) {
			seats[i].Role = p.Role
		}
	}

	return seats
}
