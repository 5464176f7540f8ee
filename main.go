package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/checkout"
	"github.com/ajith2401/delivery-app-fresh/configs"
	orderController "github.com/ajith2401/delivery-app-fresh/controllers/orders"
	paymentController "github.com/ajith2401/delivery-app-fresh/controllers/payments"
	vendorController "github.com/ajith2401/delivery-app-fresh/controllers/vendors"
	whatsappController "github.com/ajith2401/delivery-app-fresh/controllers/whatsapp"
	"github.com/ajith2401/delivery-app-fresh/conversation"
	"github.com/ajith2401/delivery-app-fresh/gateways"
	"github.com/ajith2401/delivery-app-fresh/intent"
	"github.com/ajith2401/delivery-app-fresh/middlewares"
	"github.com/ajith2401/delivery-app-fresh/routes"
	"github.com/ajith2401/delivery-app-fresh/stores"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	mongoClient, err := configs.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("mongo connection failed", zap.Error(err))
	}
	db := mongoClient.Database(cfg.MongoDB)

	redisClient, err := configs.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	users := stores.NewMongoUserStore(db)
	vendors := stores.NewMongoVendorStore(db)
	orders := stores.NewMongoOrderStore(db)
	dedup := stores.NewRedisDedupStore(redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := vendors.EnsureIndexes(ctx); err != nil {
		cancel()
		logger.Fatal("vendor index creation failed", zap.Error(err))
	}
	cancel()

	messages := gateways.NewWhatsAppGateway(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneNumberID, logger)
	payments := gateways.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret, logger)

	checkoutSvc := checkout.NewService(users, vendors, orders, payments, messages, cfg.DeliveryWindow, logger)

	engine := conversation.NewEngine(conversation.Options{
		Users:          users,
		Vendors:        vendors,
		Orders:         orders,
		Dedup:          dedup,
		Detector:       intent.NewRuleDetector(),
		Messages:       messages,
		Checkout:       checkoutSvc,
		Logger:         logger,
		SearchRadiusKm: cfg.SearchRadiusKm,
	})

	app := fiber.New()
	auth := middlewares.RequireAuth(cfg.JWTSecret)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.WhatsAppRoutes(app, whatsappController.NewController(engine, cfg.WhatsAppVerifyToken, logger))
	routes.VendorRoutes(app, vendorController.NewController(vendors, cfg.SearchRadiusKm, logger), auth)
	routes.OrderRoutes(app, orderController.NewController(users, orders, checkoutSvc, payments, logger), auth)
	routes.PaymentRoutes(app, paymentController.NewController(checkoutSvc, payments, logger), auth)

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
