package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/cakeshop/internal/config"
	"github.com/example/cakeshop/internal/handlers"
	"github.com/example/cakeshop/internal/middleware"
	"github.com/example/cakeshop/internal/models"
	"github.com/example/cakeshop/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	invoiceService := services.NewInvoiceService(cfg.InvoiceDir)
	gateway := services.NewGatewayClient(cfg.GatewayKeyID, cfg.GatewayKeySecret, cfg.GatewayBaseURL, cfg.GatewayTimeout)

	cartService := services.NewCartService(db)
	couponService := services.NewCouponService(db)
	inventoryService := services.NewInventoryService()
	checkoutService := services.NewCheckoutService(db, couponService, inventoryService, telegramService, cfg.DeliveryCharge, cfg.OrderNumberPrefix)
	orderService := services.NewOrderService(db)
	paymentService := services.NewPaymentService(db, gateway, inventoryService, telegramService, invoiceService, cfg.Currency)

	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(checkoutService, orderService, invoiceService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg.Currency)
	couponHandler := handlers.NewCouponHandler(db)
	profileHandler := handlers.NewProfileHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Catalog routes
	cakes := api.Group("/cakes")
	cakes.Get("/", catalogHandler.ListCakes)
	cakes.Get("/:id", catalogHandler.GetCake)

	// Payment callback is unauthenticated; the gateway signature is the
	// trust boundary.
	api.Post("/payments/callback", paymentHandler.Callback)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	sellerOnly := middleware.RequireRole(db, models.RoleSeller, models.RoleAdmin)
	protected.Post("/cakes", sellerOnly, catalogHandler.CreateCake)
	protected.Post("/coupons", sellerOnly, couponHandler.CreateCoupon)
	protected.Get("/coupons", sellerOnly, couponHandler.ListCoupons)

	protected.Get("/cart", cartHandler.GetCart)
	protected.Post("/cart/items", cartHandler.AddItem)
	protected.Put("/cart/items/:id", cartHandler.UpdateItem)
	protected.Delete("/cart/items/:id", cartHandler.RemoveItem)

	protected.Post("/checkout", orderHandler.Checkout)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders/:id/pay", paymentHandler.InitiatePayment)
	protected.Post("/orders/:id/cancel", orderHandler.CancelOrder)
	protected.Post("/orders/:id/status", sellerOnly, orderHandler.AdvanceStatus)
	protected.Get("/orders/:id/invoice", orderHandler.DownloadInvoice)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Get("/profile/addresses", profileHandler.ListAddresses)
	protected.Post("/profile/addresses", profileHandler.CreateAddress)
	protected.Put("/profile/addresses/:id", profileHandler.UpdateAddress)
	protected.Delete("/profile/addresses/:id", profileHandler.DeleteAddress)
}
