package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"smilecare.backend/internal/config"
	"smilecare.backend/internal/domain/entities"
	"smilecare.backend/internal/interfaces/http/handlers"
	"smilecare.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "smilecare-backend"
	serviceVersion = "1.0.0"
)

type routeDeps struct {
	authHandler          *handlers.AuthHandler
	userHandler          *handlers.UserHandler
	providerHandler      *handlers.ProviderHandler
	patientHandler       *handlers.PatientHandler
	appointmentHandler   *handlers.AppointmentHandler
	paymentHandler       *handlers.PaymentHandler
	documentHandler      *handlers.DocumentHandler
	catalogHandler       *handlers.CatalogHandler
	treatmentPlanHandler *handlers.TreatmentPlanHandler
	ticketHandler        *handlers.SupportTicketHandler
	chatHandler          *handlers.ChatHandler
	chatSocket           gin.HandlerFunc
	authMiddleware       gin.HandlerFunc
	socketAuthMiddleware gin.HandlerFunc
}

// newRouter builds the engine with the global middleware chain and every route
func newRouter(cfg *config.Config, d routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.TimeoutMiddleware(cfg.Server.RequestTimeout))

	applyCORSMiddleware(r, cfg.Server.CORSOrigins)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	if isLocalStorage(cfg.Storage) {
		r.Static(cfg.Storage.PublicPrefix, cfg.Storage.LocalRoot)
	}
	registerAPIV1Routes(r, d)
	return r
}

// isLocalStorage reports whether uploads are served from disk by this process
func isLocalStorage(cfg config.StorageConfig) bool {
	driver := strings.ToLower(cfg.Driver)
	return (driver == "" || driver == "local") && strings.HasPrefix(cfg.PublicPrefix, "/")
}

const defaultCORSOrigin = "http://localhost:3000"

func applyCORSMiddleware(r *gin.Engine, origins []string) {
	corsConfig := cors.DefaultConfig()
	switch {
	case len(origins) == 0:
		corsConfig.AllowOrigins = []string{defaultCORSOrigin}
		corsConfig.AllowCredentials = true
	case len(origins) == 1 && origins[0] == "*":
		corsConfig.AllowAllOrigins = true
	default:
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader, middleware.IdempotencyHeader, handlers.PlatformHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	middleware.RegisterMetrics(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	admin := middleware.RequireAdmin()
	staff := middleware.RequireRole(entities.UserRoleAdmin, entities.UserRoleProvider)
	chatUsers := middleware.RequireRole(entities.UserRolePatient, entities.UserRoleProvider)

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/send-otp", d.authHandler.SendOTP)
			auth.POST("/verify-otp", d.authHandler.VerifyOTP)
			auth.POST("/google", d.authHandler.SocialLogin(entities.SocialGoogle))
			auth.POST("/facebook", d.authHandler.SocialLogin(entities.SocialFacebook))
			auth.POST("/apple", d.authHandler.SocialLogin(entities.SocialApple))
			auth.POST("/refresh-token", d.authHandler.RefreshToken)
			auth.POST("/reset-password", d.authHandler.ResetPassword)

			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
			auth.POST("/logout-all", d.authMiddleware, d.authHandler.LogoutAll)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.PUT("/change-password", d.authMiddleware, d.authHandler.ChangePassword)
		}

		// Chat socket authenticates with ?token= because browsers cannot set headers on upgrades
		v1.GET("/chat/ws", d.socketAuthMiddleware, chatUsers, d.chatSocket)

		protected := v1.Group("")
		protected.Use(d.authMiddleware)

		users := protected.Group("/users")
		{
			users.PUT("/me/profile", d.userHandler.UpdateProfile)

			users.GET("", admin, d.userHandler.ListUsers)
			users.POST("", admin, d.userHandler.CreateUser)
			users.GET("/:id", admin, d.userHandler.GetUser)
			users.PUT("/:id", admin, d.userHandler.UpdateUser)
			users.PATCH("/:id/status", admin, d.userHandler.SetUserStatus)
			users.DELETE("/:id", admin, d.userHandler.DeleteUser)
		}

		// Owner checks for provider writes happen in the usecase
		providers := protected.Group("/providers")
		{
			providers.GET("", d.providerHandler.ListProviders)
			providers.GET("/:id", d.providerHandler.GetProvider)
			providers.POST("", admin, d.providerHandler.CreateProvider)
			providers.PUT("/:id", staff, d.providerHandler.UpdateProvider)
			providers.DELETE("/:id", admin, d.providerHandler.DeleteProvider)
			providers.POST("/:id/clinic-photos", staff, d.providerHandler.UploadClinicPhotos)

			providers.GET("/:id/fees", d.providerHandler.ListFees)
			providers.POST("/:id/fees", staff, d.providerHandler.UpsertFee)
			providers.POST("/:id/fees/bulk", staff, d.providerHandler.BulkUpsertFees)
			providers.DELETE("/:id/fees/:feeId", staff, d.providerHandler.DeleteFee)
		}

		patients := protected.Group("/patients")
		{
			patients.GET("", staff, d.patientHandler.ListPatients)
			patients.GET("/:id", d.patientHandler.GetPatient)
			patients.POST("", d.patientHandler.CreatePatient)
			patients.PUT("/:id", middleware.RequireRole(entities.UserRoleAdmin, entities.UserRolePatient), d.patientHandler.UpdatePatient)
			patients.DELETE("/:id", admin, d.patientHandler.DeletePatient)
		}

		// Patients and providers are scoped to their own rows by the usecases
		appointments := protected.Group("/appointments")
		{
			appointments.GET("", d.appointmentHandler.ListAppointments)
			appointments.GET("/:id", d.appointmentHandler.GetAppointment)
			appointments.POST("", d.appointmentHandler.CreateAppointment)
			appointments.PUT("/:id", d.appointmentHandler.UpdateAppointment)
			appointments.DELETE("/:id", admin, d.appointmentHandler.DeleteAppointment)
		}

		payments := protected.Group("/payments")
		{
			payments.GET("", d.paymentHandler.ListPayments)
			payments.GET("/:id", d.paymentHandler.GetPayment)
			payments.POST("", staff, middleware.IdempotencyMiddleware(), d.paymentHandler.CreatePayment)
			payments.PUT("/:id", admin, d.paymentHandler.UpdatePayment)
			payments.DELETE("/:id", admin, d.paymentHandler.DeletePayment)
		}

		documents := protected.Group("/documents")
		{
			documents.GET("", d.documentHandler.ListDocuments)
			documents.GET("/:id", d.documentHandler.GetDocument)
			documents.POST("", d.documentHandler.CreateDocument)
			documents.PUT("/:id", d.documentHandler.UpdateDocument)
			documents.DELETE("/:id", d.documentHandler.DeleteDocument)
		}

		plans := protected.Group("/plans")
		{
			plans.GET("", d.catalogHandler.ListPlans)
			plans.GET("/:id", d.catalogHandler.GetPlan)
			plans.POST("", admin, d.catalogHandler.CreatePlan)
			plans.PUT("/:id", admin, d.catalogHandler.UpdatePlan)
			plans.DELETE("/:id", admin, d.catalogHandler.DeletePlan)
		}

		procedures := protected.Group("/procedures")
		{
			procedures.GET("", d.catalogHandler.ListProcedures)
			procedures.GET("/:id", d.catalogHandler.GetProcedure)
			procedures.POST("", admin, d.catalogHandler.CreateProcedure)
			procedures.PUT("/:id", admin, d.catalogHandler.UpdateProcedure)
			procedures.DELETE("/:id", admin, d.catalogHandler.DeleteProcedure)
		}

		treatmentPlans := protected.Group("/treatment-plans")
		{
			treatmentPlans.GET("", d.treatmentPlanHandler.ListTreatmentPlans)
			treatmentPlans.GET("/:id", d.treatmentPlanHandler.GetTreatmentPlan)
			treatmentPlans.POST("", staff, d.treatmentPlanHandler.CreateTreatmentPlan)
			treatmentPlans.PUT("/:id", d.treatmentPlanHandler.UpdateTreatmentPlan)
			treatmentPlans.DELETE("/:id", staff, d.treatmentPlanHandler.DeleteTreatmentPlan)
		}

		tickets := protected.Group("/support-tickets")
		{
			tickets.GET("", d.ticketHandler.ListTickets)
			tickets.GET("/:id", d.ticketHandler.GetTicket)
			tickets.POST("", d.ticketHandler.CreateTicket)
			tickets.PUT("/:id", d.ticketHandler.UpdateTicket)
			tickets.DELETE("/:id", admin, d.ticketHandler.DeleteTicket)
			tickets.GET("/:id/replies", d.ticketHandler.ListReplies)
			tickets.POST("/:id/replies", d.ticketHandler.CreateReply)
		}

		chat := protected.Group("/chat", chatUsers)
		{
			chat.POST("/conversations", d.chatHandler.StartConversation)
			chat.GET("/conversations", d.chatHandler.ListConversations)
			chat.GET("/conversations/:id/messages", d.chatHandler.ListMessages)
			chat.POST("/conversations/:id/messages", d.chatHandler.SendMessage)
			chat.PUT("/conversations/:id/read", d.chatHandler.MarkRead)
		}
	}
}
