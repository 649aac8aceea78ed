package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"portal/backend/attempts"
	"portal/backend/certs"
	"portal/backend/config"
	"portal/backend/content"
	"portal/backend/controllers"
	"portal/backend/middleware"
	"portal/backend/prices"
	"portal/backend/progress"
	"portal/backend/wallet"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cache *content.Cache, cfg *config.Config) {
	tracker := progress.NewTracker(db)
	attemptStore := attempts.NewStore(db)
	certGenerator := certs.NewGenerator(cfg.CertDir, cfg.VerifyBaseURL)
	priceService := prices.NewService(cfg.PriceAPIURL, cfg.PriceCachePath)
	walletProxy := wallet.NewProxy(cfg.WalletAPIBase, cfg.WalletAPIKey)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	authMiddleware := middleware.AuthMiddleware(cfg)

	app.Get("/api/user/profile", authMiddleware, authController.Profile)

	// Catalog routes
	catalogController := controllers.NewCatalogController(cache, tracker, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", catalogController.SearchCourses)
	courses.Get("/level/:level", catalogController.GetCoursesByLevel)
	courses.Get("/track/:track", catalogController.GetCoursesByTrack)
	courses.Get("/:id", catalogController.GetCourseDetails)
	courses.Get("/:id/lessons/:lessonId", catalogController.GetLesson)

	// Quiz routes
	quizController := controllers.NewQuizController(cache, attemptStore, certGenerator)
	courses.Get("/:id/quiz", quizController.GetQuiz)
	courses.Post("/:id/quiz", quizController.SubmitQuiz)
	courses.Get("/:id/attempts", quizController.GetAttempts)

	// Progress routes
	progressController := controllers.NewProgressController(tracker)
	progressGroup := app.Group("/api/progress", authMiddleware)
	progressGroup.Get("/", progressController.GetStats)
	progressGroup.Get("/:id", progressController.GetCourseProgress)
	progressGroup.Post("/:id/complete", progressController.MarkComplete)
	progressGroup.Post("/:id/last", progressController.RecordLast)

	// External collaborator proxies
	toolsController := controllers.NewToolsController(priceService, walletProxy)
	tools := app.Group("/api/tools", authMiddleware)
	tools.Get("/price", toolsController.GetPrice)
	tools.Post("/wallet/invoice", toolsController.CreateInvoice)

	// Admin routes
	app.Post("/api/admin/manifest/refresh", authMiddleware, catalogController.RefreshManifest)
}
