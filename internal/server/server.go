package server

import (
	"context"
	"net/http"
	"time"

	"fitclub/internal/auth"
	"fitclub/internal/class"
	"fitclub/internal/config"
	"fitclub/internal/email"
	"fitclub/internal/member"
	"fitclub/internal/room"
	"fitclub/internal/schedule"
	"fitclub/internal/trainer"
	"fitclub/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	roomHandler := room.NewHandler(db)
	trainerHandler := trainer.NewHandler(db)
	classHandler := class.NewHandler(db, emailService)
	memberHandler := member.NewHandler(db)

	coordinator := schedule.NewService(db, schedule.NewLedger())
	scheduleHandler := schedule.NewHandler(coordinator, emailService)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/rooms", roomHandler.ListRooms)
		protected.GET("/rooms/:roomID", roomHandler.GetRoom)
		protected.GET("/rooms/:roomID/schedule", roomHandler.GetRoomSchedule)

		protected.GET("/trainers", trainerHandler.ListTrainers)
		protected.GET("/trainers/:trainerID", trainerHandler.GetTrainer)
		protected.GET("/trainers/:trainerID/availability", trainerHandler.GetAvailability)

		protected.GET("/classes", classHandler.ListClasses)
		protected.GET("/classes/:classID", classHandler.GetClass)
		protected.POST("/classes/:classID/register", classHandler.Register)
		protected.DELETE("/classes/:classID/register", classHandler.Unregister)

		protected.POST("/sessions", scheduleHandler.ScheduleSession)
		protected.POST("/sessions/:sessionID/cancel", scheduleHandler.CancelSession)

		memberGroup := protected.Group("/member")
		{
			memberGroup.GET("/profile", memberHandler.GetProfile)
			memberGroup.PATCH("/profile", memberHandler.UpdateProfile)
			memberGroup.POST("/metrics", memberHandler.RecordMetric)
			memberGroup.GET("/metrics", memberHandler.GetMetrics)
			memberGroup.GET("/dashboard", memberHandler.GetDashboard)
		}
	}

	trainerGroup := router.Group("/trainer")
	trainerGroup.Use(authMiddleware, auth.RequireRole("trainer"))
	{
		trainerGroup.POST("/availability", scheduleHandler.SetAvailability)
		trainerGroup.GET("/schedule", trainerHandler.GetOwnSchedule)
		trainerGroup.GET("/members", trainerHandler.FindMembers)
		trainerGroup.GET("/classes/:classID/attendees", classHandler.GetAttendees)
		trainerGroup.POST("/sessions/:sessionID/complete", scheduleHandler.CompleteSession)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.POST("/rooms", roomHandler.CreateRoom)
		admin.PATCH("/rooms/:roomID", roomHandler.UpdateRoom)
		admin.DELETE("/rooms/:roomID", roomHandler.DeleteRoom)

		admin.POST("/trainers", trainerHandler.CreateTrainer)
		admin.PATCH("/trainers/:trainerID", trainerHandler.UpdateTrainer)

		admin.POST("/classes", scheduleHandler.CreateClass)
		admin.POST("/classes/:classID/room", scheduleHandler.AssignRoom)
		admin.PATCH("/classes/:classID", classHandler.UpdateClass)
		admin.DELETE("/classes/:classID", classHandler.DeleteClass)
		admin.GET("/classes/:classID/attendees", classHandler.GetAttendees)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

// Shutdown stops accepting new connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
