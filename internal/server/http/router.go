package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig carries everything NewRouter needs.
type RouterConfig struct {
	Handlers    *Handlers
	Resolver    IdentityResolver
	Metrics     *Metrics
	Log         *zap.Logger
	CORSOrigins []string
	Name        string
	Version     string
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(RecoverMiddleware(cfg.Log))
	r.Use(LoggingMiddleware(cfg.Log))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(CORS(cfg.CORSOrigins))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": cfg.Name, "version": cfg.Version})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if cfg.Metrics != nil {
		r.GET("/metrics", cfg.Metrics.Handler())
	}

	h := cfg.Handlers
	api := r.Group("/api")
	authed := RequireAuth(cfg.Resolver, cfg.Log)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.GET("/me", authed, h.Me)
		auth.PUT("/update-profile", authed, h.UpdateProfile)
		auth.POST("/change-password", authed, h.ChangePassword)
		auth.DELETE("/delete-account", authed, h.DeleteAccount)
	}

	notes := api.Group("/notes", authed)
	{
		notes.POST("", h.CreateNote)
		notes.POST("/", h.CreateNote)
		notes.GET("", h.ListNotes)
		notes.GET("/", h.ListNotes)
		notes.GET("/:id", h.GetNote)
		notes.PUT("/:id", h.UpdateNote)
		notes.DELETE("/:id", h.DeleteNote)
		notes.PATCH("/:id/star", h.ToggleStar)
	}

	progress := api.Group("/progress", authed)
	{
		progress.GET("", h.ListProgress)
		progress.GET("/", h.ListProgress)
		progress.GET("/user", h.ListProgress)
		progress.GET("/stats", h.Stats)
		progress.GET("/quiz/:quiz_id", h.QuizProgress)
		progress.GET("/records/:id", h.GetProgress)
	}

	quiz := api.Group("/quiz")
	{
		quiz.GET("/all", h.ListQuizzes)
		quiz.GET("/:id", h.GetQuiz)
		quiz.POST("/submit/:id", authed, h.SubmitQuiz)
	}

	return r
}
