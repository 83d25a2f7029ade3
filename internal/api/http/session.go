package http

import (
	"werewolf-be/internal/service/dto"
	"werewolf-be/internal/service/game"
	"werewolf-be/internal/state"

	"github.com/kataras/iris/v12"
)

func CreateSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.CreateSessionRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		owner := game.Player{
			ID:   ctx.Values().GetString("player_id"),
			Name: ctx.Values().GetString("player_name"),
		}

		resp, err := appState.SessionSvc.CreateSession(owner, req)
		if err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error":      err.Error(),
				"error_code": game.ErrCode(err),
			})
			return
		}

		ctx.JSON(resp)
	}
}

func Status(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(dto.StatusResponse{
			Sessions: appState.SessionSvc.Summaries(),
		})
	}
}
