package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/svijeca/internal/config"
	"github.com/example/svijeca/internal/handlers"
	"github.com/example/svijeca/internal/middleware"
	"github.com/example/svijeca/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) error {
	emailService := services.NewEmailService(cfg.SendgridAPIKey, cfg.EmailFrom, cfg.EmailFromName, cfg.PublicBaseURL)
	settingsService := services.NewSettingsService(db)
	cartService := services.NewCartService(db)
	invoiceService := services.NewInvoiceService(db, emailService)

	paypalService, err := services.NewPaypalService(cfg.PaypalClientID, cfg.PaypalSecret, cfg.PaypalBaseURL, cfg.IsProduction())
	if err != nil {
		return err
	}

	orderService := services.NewOrderService(db, cartService, settingsService, invoiceService, emailService, paypalService)

	authHandler := handlers.NewAuthHandler(db, cfg, emailService)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(db, orderService, invoiceService, settingsService)
	invoiceHandler := handlers.NewInvoiceHandler(db, invoiceService, settingsService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	profileHandler := handlers.NewProfileHandler(db)
	passwordResetHandler := handlers.NewPasswordResetHandler(db, emailService)
	newsletterHandler := handlers.NewNewsletterHandler(db, emailService)
	paypalHandler := handlers.NewPaypalHandler(paypalService)

	authRequired := middleware.AuthMiddleware(cfg)
	adminRequired := middleware.AdminMiddleware()

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify", authHandler.Verify)
	auth.Post("/password-reset", passwordResetHandler.RequestReset)
	auth.Post("/password-reset/confirm", passwordResetHandler.ConfirmReset)

	// Catalog routes: public reads, admin writes
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", authRequired, adminRequired, catalogHandler.CreateCategory)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Put("/:id", authRequired, adminRequired, catalogHandler.UpdateCategory)
	categories.Delete("/:id", authRequired, adminRequired, catalogHandler.DeleteCategory)

	scents := api.Group("/scents")
	scents.Get("/", catalogHandler.ListScents)
	scents.Post("/", authRequired, adminRequired, catalogHandler.CreateScent)
	scents.Get("/:id", catalogHandler.GetScent)
	scents.Put("/:id", authRequired, adminRequired, catalogHandler.UpdateScent)
	scents.Delete("/:id", authRequired, adminRequired, catalogHandler.DeleteScent)

	colors := api.Group("/colors")
	colors.Get("/", catalogHandler.ListColors)
	colors.Post("/", authRequired, adminRequired, catalogHandler.CreateColor)
	colors.Get("/:id", catalogHandler.GetColor)
	colors.Put("/:id", authRequired, adminRequired, catalogHandler.UpdateColor)
	colors.Delete("/:id", authRequired, adminRequired, catalogHandler.DeleteColor)

	collections := api.Group("/collections")
	collections.Get("/", catalogHandler.ListCollections)
	collections.Post("/", authRequired, adminRequired, catalogHandler.CreateCollection)
	collections.Get("/:id", catalogHandler.GetCollection)
	collections.Put("/:id", authRequired, adminRequired, catalogHandler.UpdateCollection)
	collections.Delete("/:id", authRequired, adminRequired, catalogHandler.DeleteCollection)

	// Products
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/", authRequired, adminRequired, productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", authRequired, adminRequired, productHandler.UpdateProduct)
	products.Delete("/:id", authRequired, adminRequired, productHandler.DeleteProduct)
	products.Post("/:id/images", authRequired, adminRequired, productHandler.AddProductImage)
	products.Delete("/:id/images/:imageId", authRequired, adminRequired, productHandler.DeleteProductImage)

	// Settings: public reads, admin bulk upsert
	api.Get("/settings", settingsHandler.ListSettings)
	api.Get("/settings/shipping", settingsHandler.GetShippingRules)
	api.Get("/settings/:key", settingsHandler.GetSetting)
	api.Put("/settings", authRequired, adminRequired, settingsHandler.UpdateSettings)

	// Newsletter
	api.Post("/newsletter", newsletterHandler.Subscribe)
	api.Delete("/newsletter", newsletterHandler.Unsubscribe)

	// Profile
	profile := api.Group("/profile", authRequired)
	profile.Get("/", profileHandler.GetProfile)
	profile.Put("/", profileHandler.UpdateProfile)
	profile.Get("/addresses", profileHandler.ListAddresses)
	profile.Post("/addresses", profileHandler.CreateAddress)
	profile.Put("/addresses/:id", profileHandler.UpdateAddress)
	profile.Delete("/addresses/:id", profileHandler.DeleteAddress)

	// Cart
	cart := api.Group("/cart", authRequired)
	cart.Get("/", cartHandler.ListLines)
	cart.Post("/", cartHandler.AddLine)
	cart.Put("/:id", cartHandler.UpdateLine)
	cart.Delete("/:id", cartHandler.RemoveLine)
	cart.Delete("/", cartHandler.Clear)

	// Orders
	orders := api.Group("/orders", authRequired)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Get("/:id/items", orderHandler.GetOrderItems)
	orders.Get("/:id/invoice", orderHandler.GetOrderInvoice)
	orders.Get("/:id/invoice.pdf", orderHandler.DownloadOrderInvoicePDF)

	// PayPal checkout steps
	paypal := api.Group("/paypal", authRequired)
	paypal.Post("/orders", paypalHandler.CreateOrder)
	paypal.Post("/orders/:id/capture", paypalHandler.CaptureOrder)

	// Invoices (admin)
	invoices := api.Group("/invoices", authRequired, adminRequired)
	invoices.Post("/", invoiceHandler.CreateInvoice)
	invoices.Get("/", invoiceHandler.ListInvoices)
	invoices.Get("/last", invoiceHandler.GetLastInvoice)
	invoices.Get("/:id", invoiceHandler.GetInvoice)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadInvoicePDF)
	invoices.Delete("/:id", invoiceHandler.DeleteInvoice)

	// Admin order management
	admin := api.Group("/admin", authRequired, adminRequired)
	admin.Get("/orders", orderHandler.AdminListOrders)
	admin.Put("/orders/:id/status", orderHandler.AdminUpdateOrderStatus)

	return nil
}
