package api

import (
	"path"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"easymode/internal/agent"
	"easymode/internal/auth"
	"easymode/internal/coach"
	"easymode/internal/config"
	"easymode/internal/memory"
)

// Deps bundles the domain services handlers close over. The database is the
// package-level db.DB handle, same as the rest of the app.
type Deps struct {
	Coach    *coach.Coach
	Planner  *agent.Planner
	Memories *memory.Store
}

func SetupRouter(cfg *config.Config, rdb *redis.Client, deps Deps) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		// Setup: only if no users
		group.POST("/setup", SetupHandler())

		// Auth
		group.POST("/auth/login", LoginHandler(cfg, rdb))
		group.POST("/auth/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
		group.GET("/auth/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler())

		// Progress
		group.POST("/tasks/complete", auth.AuthMiddleware(cfg, rdb, false), CompleteTaskHandler())
		group.GET("/tasks/available", auth.AuthMiddleware(cfg, rdb, false), AvailableTasksHandler())
		group.GET("/profile/behavior", auth.AuthMiddleware(cfg, rdb, false), BehaviorProfileHandler())

		// Coaching
		group.GET("/recommendations", auth.AuthMiddleware(cfg, rdb, false), RecommendationsHandler(deps.Coach))
		group.POST("/coach/decide", auth.AuthMiddleware(cfg, rdb, false), CoachDecideHandler(deps.Coach))
		group.POST("/coach/chat", auth.AuthMiddleware(cfg, rdb, false), CoachChatHandler(deps.Coach))
		group.POST("/coach/personalize", auth.AuthMiddleware(cfg, rdb, false), PersonalizeHandler(deps.Coach))
		group.GET("/coach/insight", auth.AuthMiddleware(cfg, rdb, false), InsightHandler(deps.Coach))
		group.POST("/coach/resilience", auth.AuthMiddleware(cfg, rdb, false), ResilienceHandler(deps.Coach))
		group.GET("/coach/nudge", auth.AuthMiddleware(cfg, rdb, false), NudgeHandler(deps.Coach))

		// Weekly plans
		group.POST("/plans/weekly", auth.AuthMiddleware(cfg, rdb, false), GeneratePlanHandler(deps.Planner))
		group.GET("/plans/weekly/:week", auth.AuthMiddleware(cfg, rdb, false), GetPlanHandler())

		// Memories
		group.GET("/memories", auth.AuthMiddleware(cfg, rdb, false), ListMemoriesHandler(deps.Memories))
		group.POST("/memories", auth.AuthMiddleware(cfg, rdb, false), StoreMemoryHandler(deps.Memories))

		// Live coach chat
		group.GET("/ws/coach", WSCoachHandler(cfg, deps.Coach))

		// Online users count
		group.GET("/users/online", OnlineUserCountHandler(rdb))
	}

	// Redirect /subpath/ to /subpath (no duplicate panic)
	if subpath != "" {
		r.GET(subpath+"/", func(c *gin.Context) {
			c.Redirect(301, path.Clean(subpath))
		})
	}
	return r
}
