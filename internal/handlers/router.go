package handlers

import (
	"context"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	log "github.com/sirupsen/logrus"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Auth          authService
	Profiles      profileService
	Organizations organizationService
	Postings      postingService
	Applications  applicationService
	DB            pinger

	AllowedOrigins         []string
	LoginAttemptsPerMinute float64
	CookieSecure           bool
}

func NewRouter(deps Dependencies) *gin.Engine {

	useWireFieldNames()

	router := gin.New()
	router.MaxMultipartMemory = maxUploadSize
	router.Use(recovery(), observe())
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(deps.AllowedOrigins)))
	}

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	users := NewUserHandler(deps.Auth, deps.Profiles, deps.CookieSecure)
	companies := NewCompanyHandler(deps.Organizations)
	jobs := NewJobHandler(deps.Postings)
	applications := NewApplicationHandler(deps.Applications)
	authenticated := requireAuth(deps.Auth)

	api := router.Group("/api/v1")
	api.GET("/health", health(deps.DB))

	user := api.Group("/user")
	{
		user.POST("/register", users.Register)
		user.POST("/login", newLoginLimiter(deps.LoginAttemptsPerMinute).middleware(), users.Login)
		user.GET("/logout", users.Logout)
		user.PUT("/profile/update", authenticated, users.UpdateProfile)
		user.GET("/resume/view/:userId", authenticated, users.ViewResume)
	}

	company := api.Group("/company", authenticated)
	{
		company.POST("/register", companies.Register)
		company.GET("/getcompany", companies.ListOwn)
		company.GET("/getcompany/:id", companies.Get)
		company.PUT("/update/:id", companies.Update)
	}

	job := api.Group("/job")
	{
		job.GET("/all", jobs.Search)
		job.GET("/featured", jobs.Featured)
		job.GET("/counts", jobs.Counts)
		job.GET("/getadminjobs", authenticated, jobs.ListOwn)
		job.POST("/postjob", authenticated, jobs.Create)
		job.GET("/:id", jobs.Get)
		job.PUT("/:id", authenticated, jobs.Update)
		job.PATCH("/:id/status", authenticated, jobs.SetStatus)
		job.DELETE("/:id", authenticated, jobs.Delete)
	}

	application := api.Group("/application", authenticated)
	{
		application.POST("", applications.Apply)
		application.GET("/user/:userId", applications.ListForApplicant)
		application.GET("/posting/:id", applications.ListForPosting)
		application.PATCH("/:id/status", applications.UpdateStatus)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowOrigins = origins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	config.MaxAge = 12 * time.Hour
	return config
}

func health(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

var fieldNamesOnce sync.Once

// useWireFieldNames makes validation errors report json or form names instead of Go field names.
func useWireFieldNames() {
	fieldNamesOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				if name := strings.Split(field.Tag.Get(tag), ",")[0]; name != "" && name != "-" {
					return name
				}
			}
			return field.Name
		})
	})
}
