package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting, loaded from the environment.
type Config struct {
	Addr        string `envconfig:"ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	// Checkout pricing policy applied by the cart quote endpoint. Shipping is
	// a flat fee waived above the free-shipping threshold; tax is a fraction
	// of the items price.
	ShippingFlat    float64 `envconfig:"CART_SHIPPING_FLAT" default:"10"`
	FreeShippingMin float64 `envconfig:"CART_FREE_SHIPPING_MIN" default:"100"`
	TaxRate         float64 `envconfig:"CART_TAX_RATE" default:"0.15"`

	PayPal PayPal
}

// PayPal configures the payment provider client. When ClientID is empty the
// server skips remote capture verification and trusts the submitted receipt.
type PayPal struct {
	ClientID string `envconfig:"PAYPAL_CLIENT_ID"`
	Secret   string `envconfig:"PAYPAL_SECRET"`
	BaseURL  string `envconfig:"PAYPAL_BASE_URL" default:"https://api-m.sandbox.paypal.com"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
