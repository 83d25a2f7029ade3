package http

import (
	"errors"

	"werewolf-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultRecordLimit = 20

// Records 返回最近结束的对局存档，数据库未启用时返回 503
func Records(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		if appState.Records == nil {
			ctx.StatusCode(iris.StatusServiceUnavailable)
			ctx.JSON(iris.Map{
				"error": "对局存档未启用",
			})
			return
		}

		limit := ctx.URLParamIntDefault("limit", defaultRecordLimit)
		if limit <= 0 || limit > 100 {
			limit = defaultRecordLimit
		}

		records, err := appState.Records.RecentRecords(limit)
		if err != nil {
			zap.L().Error("查询对局存档失败", zap.Error(err))
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": "查询对局存档失败",
			})
			return
		}

		ctx.JSON(iris.Map{
			"records": records,
		})
	}
}

func SessionRecord(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		if appState.Records == nil {
			ctx.StatusCode(iris.StatusServiceUnavailable)
			ctx.JSON(iris.Map{
				"error": "对局存档未启用",
			})
			return
		}

		sessionID := ctx.Params().Get("session_id")

		record, err := appState.Records.SessionRecord(sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.StatusCode(iris.StatusNotFound)
				ctx.JSON(iris.Map{
					"error": "未找到该会话的存档",
				})
				return
			}

			zap.L().Error(
				"查询对局存档失败",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": "查询对局存档失败",
			})
			return
		}

		ctx.JSON(record)
	}
}
