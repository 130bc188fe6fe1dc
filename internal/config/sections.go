package config

import (
	"fmt"
	"time"
)

type HTTP struct {
	Port           uint32   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5000" envSeparator:","`
}

func (h HTTP) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

// Postgres is optional: an empty URL selects the in-memory store.
type Postgres struct {
	URL             string        `env:"DATABASE_URL"`
	MaxConns        int           `env:"POSTGRES_MAX_CONNS" envDefault:"30"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"8"`
	MaxConnLifetime time.Duration `env:"POSTGRES_MAX_CONN_LIFETIME" envDefault:"30m"`
}

// Redis is optional: an empty address keeps token revocation in memory.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Auth struct {
	Secret   string        `env:"AUTH_SECRET,required,notEmpty"`
	TokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`
}

// Admin describes the bootstrap account created on first start.
type Admin struct {
	Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
	Password string `env:"ADMIN_PASSWORD,required,notEmpty"`
	Email    string `env:"ADMIN_EMAIL"`
}

type Seed struct {
	DemoData bool `env:"SEED_DEMO_DATA" envDefault:"true"`
}
