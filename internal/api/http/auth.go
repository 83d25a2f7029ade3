package http

import (
	"strings"

	"werewolf-be/internal/auth"
	"werewolf-be/internal/service/dto"
	"werewolf-be/internal/service/game"
	"werewolf-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// Login 为玩家分配 ID 并签发 token，
// 不做账号体系，名字即身份
func Login(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.LoginRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		if req.PlayerName == "" {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "玩家名称不能为空",
			})
			return
		}

		playerID := game.ShortID()

		token, err := auth.GenerateToken(playerID, req.PlayerName)
		if err != nil {
			zap.L().Error("签发token失败", zap.Error(err))
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": "登录失败",
			})
			return
		}

		zap.S().Infof("玩家 %s(%s) 登录", req.PlayerName, playerID)

		ctx.JSON(dto.LoginResponse{
			PlayerID:   playerID,
			PlayerName: req.PlayerName,
			Token:      token,
		})
	}
}

// JWTAuth 校验 Authorization 头中的 Bearer token，
// 并把玩家身份写入请求上下文
func JWTAuth() iris.Handler {
	return func(ctx iris.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.StatusCode(iris.StatusUnauthorized)
			ctx.JSON(iris.Map{
				"error": "缺少 Authorization 头",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.StatusCode(iris.StatusUnauthorized)
			ctx.JSON(iris.Map{
				"error": "Authorization 头格式必须为 Bearer {token}",
			})
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			ctx.StatusCode(iris.StatusUnauthorized)
			ctx.JSON(iris.Map{
				"error": "token 无效或已过期",
			})
			return
		}

		ctx.Values().Set("player_id", claims.PlayerID)
		ctx.Values().Set("player_name", claims.PlayerName)

		ctx.Next()
	}
}
