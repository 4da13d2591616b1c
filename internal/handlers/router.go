package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires every handler into a gin engine.
type Router struct {
	Debate   *DebateHandler
	Evidence *EvidenceHandler
	Trends   *TrendsHandler
	Config   *ConfigHandler
}

// Setup registers all routes on the given engine.
func (r *Router) Setup(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	{
		debates := api.Group("/debates")
		{
			debates.POST("", r.Debate.CreateDebate)
			debates.GET("/recent", r.Debate.ListRecent)
			debates.GET("/:id", r.Debate.GetDebate)
			debates.POST("/:id/turn", r.Debate.AdvanceTurn)
			debates.POST("/:id/vote", r.Debate.Vote)
			debates.POST("/:id/questions", r.Debate.AddQuestion)
			debates.POST("/:id/questions/:qid/upvote", r.Debate.UpvoteQuestion)
			debates.POST("/:id/messages/:mid/reactions", r.Debate.AddReaction)
		}

		api.POST("/evidence/search", r.Evidence.Search)
		api.GET("/trends", r.Trends.GetTrends)
		api.POST("/trends/refresh", r.Trends.RefreshTrends)
		api.GET("/ai/config", r.Config.GetAIConfig)
		api.GET("/models", r.Config.GetModels)
		api.GET("/topics", r.Config.GetTopics)
	}
}
