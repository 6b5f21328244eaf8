package main

import (
	"database/sql"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/kritsada65/storefront-backend/internal/cart"
	"github.com/kritsada65/storefront-backend/internal/category"
	"github.com/kritsada65/storefront-backend/internal/config"
	"github.com/kritsada65/storefront-backend/internal/favorite"
	"github.com/kritsada65/storefront-backend/internal/order"
	"github.com/kritsada65/storefront-backend/internal/payment"
	"github.com/kritsada65/storefront-backend/internal/product"
	"github.com/kritsada65/storefront-backend/internal/user"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}

	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("connecting to database")
	}
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		log.WithError(err).Fatal("preparing database schema")
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(requestLogger(log))

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, []byte(cfg.JWTSecret))

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService, userService)

	categoryHandler := category.NewHandler(category.NewService(category.NewPostgresRepository(db)))

	cartPolicy := cart.Policy{
		ShippingFlat:    cfg.ShippingFlat,
		FreeShippingMin: cfg.FreeShippingMin,
		TaxRate:         cfg.TaxRate,
	}
	cartHandler := cart.NewHandler(cartPolicy)

	var verifier payment.Verifier
	if cfg.PayPal.ClientID != "" {
		paypal := payment.NewPayPalClient(cfg.PayPal.BaseURL, cfg.PayPal.ClientID, cfg.PayPal.Secret, log)
		verifier = paypal
		app.Get("/api/v1/config/paypal", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"clientId": paypal.ClientID()})
		})
	} else {
		log.Warn("PAYPAL_CLIENT_ID not set; payment receipts will not be verified remotely")
	}

	orderService := order.NewService(order.NewPostgresRepository(db), productService, verifier)
	orderHandler := order.NewHandler(orderService)

	favoriteService := favorite.NewService(favorite.NewPostgresRepository(db), productService)
	favoriteHandler := favorite.NewHandler(favoriteService)

	// public routes before the JWT gate
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	cartHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		// unauthenticated GETs on the public catalog stay open
		Filter: func(c *fiber.Ctx) bool {
			if c.Method() != fiber.MethodGet {
				return false
			}
			p := c.Path()
			return strings.HasPrefix(p, "/api/v1/products") ||
				strings.HasPrefix(p, "/api/v1/categories") ||
				p == "/api/v1/config/paypal"
		},
	}))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	categoryHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	favoriteHandler.RegisterProtectedRoutes(app)

	log.WithField("addr", cfg.Addr).Info("starting server")
	if err := app.Listen(cfg.Addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func openDB(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// ensureSchema creates the tables on first run so a fresh database works out
// of the box.
func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			favorite_product_ids integer[],
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS category (
			category_id SERIAL PRIMARY KEY,
			category_name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS product (
			product_id SERIAL PRIMARY KEY,
			product_name TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			category_id INT REFERENCES category(category_id),
			description TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			price NUMERIC NOT NULL DEFAULT 0,
			count_in_stock INT NOT NULL DEFAULT 0,
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			num_reviews INT NOT NULL DEFAULT 0,
			reviews JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(user_id),
			order_items JSONB NOT NULL DEFAULT '[]',
			shipping_address JSONB NOT NULL DEFAULT '{}',
			payment_method TEXT NOT NULL DEFAULT '',
			items_price NUMERIC NOT NULL DEFAULT 0,
			shipping_price NUMERIC NOT NULL DEFAULT 0,
			tax_price NUMERIC NOT NULL DEFAULT 0,
			total_price NUMERIC NOT NULL DEFAULT 0,
			is_paid BOOLEAN NOT NULL DEFAULT FALSE,
			paid_at TIMESTAMPTZ,
			payment_result JSONB,
			is_delivered BOOLEAN NOT NULL DEFAULT FALSE,
			delivered_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func requestLogger(log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start).String(),
		}).Info("request")
		return err
	}
}
