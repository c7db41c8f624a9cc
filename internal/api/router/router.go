package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gall-ardo/ProctorHub-sub002/config"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/api/handler"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/api/middleware"
	"github.com/Gall-ardo/ProctorHub-sub002/pkg/jwt"
	"github.com/Gall-ardo/ProctorHub-sub002/pkg/metrics"
	"github.com/Gall-ardo/ProctorHub-sub002/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	db *gorm.DB,
	m *metrics.Metrics,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── 指标 ──
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
	{
		// 换班模块（仅助教）
		swaps := authorized.Group("/swap-requests")
		swaps.Use(middleware.RoleAuth("ta"))
		{
			swaps.POST("/personal", h.Swap.CreatePersonal)
			swaps.POST("/forum", h.Swap.CreateForum)
			swaps.GET("/incoming", h.Swap.ListIncoming)
			swaps.GET("/forum", h.Swap.ListForum)
			swaps.GET("/submitted", h.Swap.ListSubmitted)
			swaps.GET("/:id", h.Swap.Get)
			swaps.GET("/:id/offerable", h.Swap.ListOfferable)
			swaps.POST("/:id/respond",
				middleware.RateLimit(rdb, cfg.RateLimit.RespondLimit, cfg.RateLimit.RespondWindow),
				h.Swap.Respond,
			)
			swaps.POST("/:id/cancel", h.Swap.Cancel)
			swaps.POST("/:id/reject", h.Swap.Reject)
		}

		// 监考分配模块
		assignments := authorized.Group("/assignments")
		{
			assignments.GET("/me", h.Assignment.ListMine)
			assignments.GET("/me/calendar.ics", h.Assignment.ExportCalendar)
			assignments.PUT("/:id/accept", h.Assignment.Accept)
			assignments.PUT("/:id/reject", h.Assignment.Reject)
		}

		authorized.GET("/users/me/workload", h.Assignment.GetWorkload)
		authorized.GET("/notifications/me", h.Notification.ListMine)
	}

	return r
}
