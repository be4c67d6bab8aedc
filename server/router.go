package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	errs "github.com/greenloophq/greenloop/errors"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 16 << 20
	s.defineRoutes(r)

	return r
}

// limitReportSubmission throttles report submissions per user so a single
// account cannot flood the ledger with report credits.
func limitReportSubmission() gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc: func(c *gin.Context) string {
			if userID, ok := getUserIDFromContext(c); ok {
				return fmt.Sprintf("report:%d", userID)
			}
			return "report:" + c.ClientIP()
		},
	})
}

func (s *Server) defineRoutes(router *gin.Engine) {
	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/session", s.handleCreateSession())
	apirouter.GET("/reports", s.handleListRecentReports())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())

	authorized.POST("/user/report", limitReportSubmission(), s.handleSubmitReport())
	authorized.GET("/user/reports", s.handleListUserReports())

	authorized.GET("/tasks", s.handleListTasks())
	authorized.PUT("/tasks/:taskID/claim", s.handleClaimTask())
	authorized.POST("/tasks/:taskID/verify", s.handleVerifyCollection())

	authorized.GET("/rewards", s.handleListAvailableRewards())
	authorized.GET("/rewards/balance", s.handleGetBalance())
	authorized.GET("/rewards/transactions", s.handleListTransactions())
	authorized.GET("/rewards/leaderboard", s.handleLeaderboard())
	authorized.POST("/rewards/redeem", s.handleRedeemAll())
	authorized.POST("/rewards/:rewardID/redeem", s.handleRedeemSpecific())

	authorized.GET("/notifications", s.handleListUnreadNotifications())
	authorized.PUT("/notifications/:notificationID/read", s.handleMarkNotificationRead())
	authorized.GET("/ws/notifications", s.handleNotificationStream())
}
