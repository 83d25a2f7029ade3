package http

import (
	"fmt"

	"werewolf-be/internal/api/http/websocket"
	"werewolf-be/internal/state"

	"github.com/kataras/iris/v12"
)

func RunServer(appState *state.AppState) {
	app := iris.Default()

	api := app.Party("/api/v1")

	api.Post("/auth/login", Login(appState))

	api.Post("/sessions/create", JWTAuth(), CreateSession(appState))
	api.Get("/status", JWTAuth(), Status(appState))

	api.Get("/records", JWTAuth(), Records(appState))
	api.Get("/records/{session_id}", JWTAuth(), SessionRecord(appState))

	// WebSocket 无法携带请求头，token 走查询参数
	api.Get("/ws/join", websocket.JoinGame(appState))

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	app.Listen(addr)
}
