package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/mesa-backend/controllers"
	"github.com/yeremiapane/mesa-backend/events"
	"github.com/yeremiapane/mesa-backend/middlewares"
	"github.com/yeremiapane/mesa-backend/services"
	"github.com/yeremiapane/mesa-backend/storage"
	"gorm.io/gorm"
)

type Options struct {
	DB            *gorm.DB
	Storage       *storage.S3Helper
	Hub           *events.Hub
	Publisher     events.Publisher
	CORSOrigin    string
	MaxUploadSize int64
	RateLimiter   *middlewares.RateLimiter
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if opts.MaxUploadSize > 0 {
		r.MaxMultipartMemory = opts.MaxUploadSize
	}

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.RateLimit())
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// TABLES
	tableCtrl := controllers.NewTableController(services.NewTableService(opts.DB), opts.Publisher)
	tables := r.Group("/tables")
	{
		tables.GET("", tableCtrl.GetAllTables)
		tables.GET("/:numero", tableCtrl.GetTableByNumber)
		tables.POST("", tableCtrl.CreateTable)
		tables.PATCH("/:id", tableCtrl.UpdateTable)
		tables.DELETE("/:id", tableCtrl.DeleteTable)
	}

	// FILES
	if opts.Storage != nil {
		fileCtrl := controllers.NewFileController(opts.Storage, opts.MaxUploadSize)
		r.POST("/files", fileCtrl.UploadFile)
		r.GET("/files/:key", fileCtrl.GetFile)
		r.DELETE("/files/*key", fileCtrl.DeleteFile)
	}

	// WebSocket perubahan meja
	if opts.Hub != nil {
		r.GET("/ws/tables", controllers.TableStreamHandler(opts.Hub))
	}

	return r
}
