package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Midtrans Midtrans `envPrefix:"MIDTRANS_"`
	Supabase Supabase `envPrefix:"SUPABASE_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
}

type Midtrans struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.sandbox.midtrans.com"`
	SnapApiURL string `env:"SNAP_API_URL" envDefault:"https://app.sandbox.midtrans.com"`
	ServerKey  string `env:"SERVER_KEY"`
	ClientKey  string `env:"CLIENT_KEY"`
}

type Supabase struct {
	ProjectURL   string `env:"PROJECT_URL"`
	ServiceKey   string `env:"SERVICE_KEY"`
	JWTSecret    string `env:"JWT_SECRET"`
	UploadBucket string `env:"UPLOAD_BUCKET" envDefault:"order-attachments"`
}

type Redis struct {
	Addr       string        `env:"ADDR" envDefault:"localhost:6379"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"30m"`
}

type Checkout struct {
	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
	PollGrace     time.Duration `env:"POLL_GRACE" envDefault:"1m"`
	PollAttempts  int           `env:"POLL_ATTEMPTS" envDefault:"3"`
	WhatsAppPhone string        `env:"WHATSAPP_PHONE" envDefault:"6281234567890"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
