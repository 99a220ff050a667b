package config

type App struct {
	Port          string `env:"APP_PORT" default:"8080"`
	DatabaseURL   string `env:"DATABASE_URL"` // empty runs the in-memory ledger
	JWTSecret     string `env:"JWT_SECRET" default:"local_dev_secret"`
	StaffPasscode string `env:"STAFF_PASSCODE,required"`
	CatalogPath   string `env:"CATALOG_PATH" default:"catalog.yaml"`
	Env           string `env:"APP_ENV" default:"dev"`
}
