package router

import (
	"github.com/gin-gonic/gin"
	"github.com/servibook/servibook-backend/config"
	"github.com/servibook/servibook-backend/internal/app/controller"
	"github.com/servibook/servibook-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	businessController     *controller.BusinessController
	appointmentController  *controller.AppointmentController
	categoryController     *controller.CategoryController
	reviewController       *controller.ReviewController
	ownerRequestController *controller.OwnerRequestController
	adminController        *controller.AdminController
	notificationController *controller.NotificationController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	businessController *controller.BusinessController,
	appointmentController *controller.AppointmentController,
	categoryController *controller.CategoryController,
	reviewController *controller.ReviewController,
	ownerRequestController *controller.OwnerRequestController,
	adminController *controller.AdminController,
	notificationController *controller.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		businessController:     businessController,
		appointmentController:  appointmentController,
		categoryController:     categoryController,
		reviewController:       reviewController,
		ownerRequestController: ownerRequestController,
		adminController:        adminController,
		notificationController: notificationController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "ServiBook API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		businesses := v1.Group("/businesses")
		{
			// Panel del dueño (antes de las rutas con :id para que
			// "my-business" no se interprete como un ID)
			myBusiness := businesses.Group("/my-business")
			myBusiness.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("owner", "admin"))
			{
				myBusiness.GET("", r.businessController.GetMyBusiness)
				myBusiness.PUT("/:id", r.businessController.UpdateMyBusiness)
				myBusiness.PUT("/:id/schedule", r.businessController.UpdateSchedule)
				myBusiness.POST("/:id/publish", r.businessController.Publish)
				myBusiness.GET("/:id/appointments", r.businessController.ListAppointments)
				myBusiness.GET("/:id/appointments/export", r.businessController.ExportAppointments)
			}

			// Rutas públicas del directorio
			businesses.GET("", r.businessController.ListBusinesses)
			businesses.GET("/:id", r.businessController.GetBusiness)
			businesses.GET("/:id/available-slots", r.businessController.GetAvailableSlots)
			businesses.GET("/:id/reviews", r.reviewController.ListReviews)
			businesses.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.CreateReview,
			)
		}

		appointments := v1.Group("/appointments")
		appointments.Use(r.authMiddleware.Authenticate())
		{
			appointments.POST("", r.appointmentController.Book)
			appointments.GET("", r.appointmentController.ListMine)
			appointments.DELETE("/:id", r.appointmentController.Cancel)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.POST("/requests",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("owner"),
				r.categoryController.SubmitRequest,
			)
			categories.GET("/requests/mine",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("owner"),
				r.categoryController.ListMyRequests,
			)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.POST("/:id/reply",
				r.authMiddleware.RequireRole("owner"),
				r.reviewController.ReplyReview,
			)
			reviews.DELETE("/:id", r.reviewController.DeleteReview)
		}

		ownerRequests := v1.Group("/owner-requests")
		ownerRequests.Use(r.authMiddleware.Authenticate())
		{
			ownerRequests.POST("", r.ownerRequestController.Submit)
			ownerRequests.GET("/mine", r.ownerRequestController.GetMine)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/owner-requests", r.adminController.ListOwnerRequests)
			admin.POST("/owner-requests/:id/approve", r.adminController.ApproveOwnerRequest)
			admin.POST("/owner-requests/:id/reject", r.adminController.RejectOwnerRequest)

			admin.GET("/category-requests", r.adminController.ListCategoryRequests)
			admin.POST("/category-requests/:id/approve", r.adminController.ApproveCategoryRequest)
			admin.POST("/category-requests/:id/reject", r.adminController.RejectCategoryRequest)

			admin.POST("/categories", r.adminController.CreateCategory)
			admin.DELETE("/categories/:id", r.adminController.DeleteCategory)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.GET("/unread-count", r.notificationController.GetUnreadCount)
			notifications.GET("/settings", r.notificationController.GetNotificationSettings)
			notifications.PUT("/settings", r.notificationController.UpdateNotificationSettings)
			notifications.PATCH("/read-all", r.notificationController.MarkAllAsRead)
			notifications.PATCH("/:id/read", r.notificationController.MarkAsRead)
			notifications.DELETE("/:id", r.notificationController.DeleteNotification)
			notifications.GET("/ws", r.notificationController.WebSocketHandler)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

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
