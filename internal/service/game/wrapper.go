package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_JOIN_SESSION  = "JoinSession"
	REQ_TOGGLE_SEAT   = "ToggleSeat"
	REQ_START_SESSION = "StartSession"
	REQ_OPEN_VOTE     = "OpenVote"
	REQ_VOTE          = "Vote"
	REQ_NIGHT_ACTION  = "NightAction"
	REQ_SNAPSHOT      = "Snapshot"
	REQ_TERMINATE     = "Terminate"
	REQ_EXIT_SESSION  = "ExitSession"
	REQ_TIMEOUT       = "Timeout"
)

// RequestWrapper 是进入状态机的统一信封。
// PlayerID 和 RespCh 由传输层（或定时器）填充，永远不反序列化自客户端
type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data"`

	PlayerID   string               `json:"-"`
	PlayerName string               `json:"-"`
	RespCh     chan ResponseWrapper `json:"-"`
}

func tryUnwrap[T any](wrapper RequestWrapper, reqType string) *T {
	if wrapper.ReqType != reqType {
		return nil
	}

	var req T

	// 无负载的请求类型允许 Data 为空
	if len(wrapper.Data) > 0 {
		if err := json.Unmarshal(wrapper.Data, &req); err != nil {
			zap.L().Error(
				"解析请求负载失败",
				zap.Error(err),
				zap.String("request_type", reqType),
			)
			return nil
		}
	}

	return &req
}

func TryUnwrapJoinSessionRequest(wrapper RequestWrapper) *JoinSessionRequest {
	return tryUnwrap[JoinSessionRequest](wrapper, REQ_JOIN_SESSION)
}

func TryUnwrapToggleSeatRequest(wrapper RequestWrapper) *ToggleSeatRequest {
	return tryUnwrap[ToggleSeatRequest](wrapper, REQ_TOGGLE_SEAT)
}

func TryUnwrapStartSessionRequest(wrapper RequestWrapper) *StartSessionRequest {
	return tryUnwrap[StartSessionRequest](wrapper, REQ_START_SESSION)
}

func TryUnwrapOpenVoteRequest(wrapper RequestWrapper) *OpenVoteRequest {
	return tryUnwrap[OpenVoteRequest](wrapper, REQ_OPEN_VOTE)
}

func TryUnwrapVoteRequest(wrapper RequestWrapper) *VoteRequest {
	return tryUnwrap[VoteRequest](wrapper, REQ_VOTE)
}

func TryUnwrapNightActionRequest(wrapper RequestWrapper) *NightActionRequest {
	return tryUnwrap[NightActionRequest](wrapper, REQ_NIGHT_ACTION)
}

func TryUnwrapSnapshotRequest(wrapper RequestWrapper) *SnapshotRequest {
	return tryUnwrap[SnapshotRequest](wrapper, REQ_SNAPSHOT)
}

func TryUnwrapTerminateRequest(wrapper RequestWrapper) *TerminateRequest {
	return tryUnwrap[TerminateRequest](wrapper, REQ_TERMINATE)
}

func TryUnwrapExitSessionRequest(wrapper RequestWrapper) *ExitSessionRequest {
	return tryUnwrap[ExitSessionRequest](wrapper, REQ_EXIT_SESSION)
}

func TryUnwrapTimeoutRequest(wrapper RequestWrapper) *TimeoutRequest {
	return tryUnwrap[TimeoutRequest](wrapper, REQ_TIMEOUT)
}

// 响应类型
const (
	RESP_ERROR = "Error"

	RESP_JOIN_SESSION    = "JoinSession"
	RESP_SEAT_UPDATE     = "SeatUpdate"
	RESP_SESSION_STARTED = "SessionStarted"
	RESP_PHASE           = "Phase"
	RESP_VOTE_UPDATE     = "VoteUpdate"
	RESP_VOTE_RESULT     = "VoteResult"
	RESP_WOLF_VOTE       = "WolfVote"
	RESP_NIGHT_ACTION    = "NightAction"
	RESP_DEATHS          = "Deaths"
	RESP_SNAPSHOT        = "Snapshot"
	RESP_EXIT_SESSION    = "ExitSession"
	RESP_KICKED          = "Kicked"
	RESP_GAME_RESULT     = "GameResult"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data,omitempty"`
	ErrCode  string `json:"error_code,omitempty"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(err error) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrCode:  ErrCode(err),
		ErrMsg:   err.Error(),
	}
}
