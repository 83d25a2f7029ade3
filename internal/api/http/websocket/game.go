package websocket

import (
	"encoding/json"
	"time"

	"werewolf-be/internal/auth"
	"werewolf-be/internal/service/game"
	"werewolf-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// JoinGame 把一条 WebSocket 连接接入指定会话的状态机。
// token 和 session_id 均从查询参数获取，
// 身份信息只来自 token，客户端负载中的任何 ID 都不被信任
func JoinGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		token := ctx.URLParam("token")
		sessionID := ctx.URLParam("session_id")

		claims, err := auth.ParseToken(token)
		if err != nil {
			zap.L().Warn(
				"WebSocket鉴权失败",
				zap.String("client_ip", ctx.RemoteAddr()),
				zap.Error(err),
			)
			ctx.StatusCode(iris.StatusUnauthorized)
			return
		}

		gm, err := appState.SessionSvc.Machine(sessionID)
		if err != nil {
			ctx.StatusCode(iris.StatusNotFound)
			ctx.JSON(iris.Map{
				"error":      err.Error(),
				"error_code": game.ErrCode(err),
			})
			return
		}

		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		playerID := claims.PlayerID
		playerName := claims.PlayerName
		clientIP := ctx.RemoteAddr()

		// 缓冲通道，避免状态机广播时被慢连接阻塞。
		// 通道归本连接所有，状态机只发送、从不关闭
		respCh := make(chan game.ResponseWrapper, 64)

		reqCh := gm.ReqCh()

		joinWrapper := game.RequestWrapper{
			ReqType:    game.REQ_JOIN_SESSION,
			PlayerID:   playerID,
			PlayerName: playerName,
			RespCh:     respCh,
		}

		sendTimer := time.NewTimer(5 * time.Second)
		select {
		case reqCh <- joinWrapper:
			if !sendTimer.Stop() {
				<-sendTimer.C
			}
		case <-sendTimer.C:
			zap.L().Error(
				"会话无法及时处理加入请求",
				zap.String("session_id", sessionID),
				zap.String("player_id", playerID),
			)
			return
		}

		// 等待加入确认，失败时把错误转发给客户端后断开
		select {
		case joinResp := <-respCh:
			if err := conn.WriteJSON(joinResp); err != nil {
				zap.L().Error(
					"发送加入响应失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}

			if joinResp.RespType == game.RESP_ERROR {
				zap.L().Warn(
					"加入会话被拒绝",
					zap.String("session_id", sessionID),
					zap.String("player_id", playerID),
					zap.String("error_code", joinResp.ErrCode),
				)
				return
			}

		case <-time.After(3 * time.Second):
			zap.L().Error(
				"等待加入响应超时",
				zap.String("session_id", sessionID),
				zap.String("player_id", playerID),
			)
			return
		}

		zap.L().Info(
			"玩家接入会话",
			zap.String("session_id", sessionID),
			zap.String("player_id", playerID),
			zap.String("player_name", playerName),
		)

		gm.ConnAttached()
		defer gm.ConnDetached()

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		// 写入协程
		go func() {
			ticker := time.NewTicker(HEARTBEAT_INTERVAL)
			defer ticker.Stop()

			for {
				select {
				case <-writeDoneCh:
					zap.L().Debug(
						"WebSocket写入协程退出",
						zap.String("client_ip", clientIP),
					)
					return

				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						zap.L().Error(
							"发送心跳失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}

				case resp := <-respCh:
					if err := conn.WriteJSON(resp); err != nil {
						zap.L().Error(
							"发送消息失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}

					// 连接被重连顶替：送达通知后主动断开，
					// 让读循环跟着退出
					if resp.RespType == game.RESP_KICKED {
						zap.L().Info(
							"连接已被重连顶替，关闭旧连接",
							zap.String("client_ip", clientIP),
						)
						conn.Close()
						return
					}
				}
			}
		}()

		// 读取循环（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
				) {
					zap.L().Error(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			var wrapper game.RequestWrapper

			if err := json.Unmarshal(msg, &wrapper); err != nil {
				zap.L().Error(
					"解析消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				select {
				case respCh <- game.ResponseWrapper{
					RespType: game.RESP_ERROR,
					ErrCode:  "badRequest",
					ErrMsg:   "无效的请求格式",
				}:
				default:
				}

				continue
			}

			// Timeout 类型保留给内部定时器使用
			if wrapper.ReqType == game.REQ_TIMEOUT {
				continue
			}

			// 身份信息统一由传输层盖章
			wrapper.PlayerID = playerID
			wrapper.PlayerName = playerName
			wrapper.RespCh = respCh

			select {
			case reqCh <- wrapper:
			default:
				zap.L().Error(
					"发送请求到游戏状态机失败：请求通道已满",
					zap.String("client_ip", clientIP),
				)

				select {
				case respCh <- game.ResponseWrapper{
					RespType: game.RESP_ERROR,
					ErrCode:  "sessionBusy",
					ErrMsg:   "会话繁忙，请稍后再试",
				}:
				default:
				}
			}
		}

		// 对局结束后状态机协程已退出，无人回应退出请求
		if gm.IsFinished() {
			zap.L().Info(
				"对局已结束，直接断开连接",
				zap.String("client_ip", clientIP),
				zap.String("player_id", playerID),
			)
			return
		}

		// 读循环退出，表示客户端断开连接，
		// 通知状态机清理这个连接
		zap.L().Info(
			"客户端连接断开，发送退出请求",
			zap.String("client_ip", clientIP),
			zap.String("player_id", playerID),
		)

		exitWrapper := game.RequestWrapper{
			ReqType:  game.REQ_EXIT_SESSION,
			PlayerID: playerID,
			RespCh:   respCh,
		}

		select {
		case reqCh <- exitWrapper:
		default:
			zap.L().Warn(
				"发送退出请求失败：请求通道已满",
				zap.String("player_id", playerID),
			)
		}

		// 等待退出确认或超时
		waitTimer := time.NewTimer(3 * time.Second)
		defer waitTimer.Stop()

		for {
			select {
			case resp := <-respCh:
				if resp.RespType == game.RESP_EXIT_SESSION {
					zap.L().Info(
						"收到退出确认响应",
						zap.String("player_id", playerID),
					)
					return
				}

			case <-waitTimer.C:
				zap.L().Warn(
					"等待退出确认超时，强制退出",
					zap.String("player_id", playerID),
				)
				return
			}
		}
	}
}
