package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"extreme-startup"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:3000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres   Postgres
	Redis      Redis
	Security   Security
	Game       Game
	Trivia     Trivia
	Scoreboard Scoreboard
}

// Postgres captures connection info for the answer log.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders the pgx connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode, p.MaxConns)
}

// Redis holds scoreboard storage configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores admin credentials and token signing secrets.
// One of AdminPassword or AdminPasswordHash must be set.
type Security struct {
	JWTSecret         string        `env:"JWT_SECRET,notEmpty"`
	AdminPassword     string        `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	TokenTTL          time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"12h"`
}

// Game groups question pacing and generation settings.
type Game struct {
	QuestionTimeout time.Duration `env:"QUESTION_TIMEOUT" envDefault:"4s"`
	DelayUnit       time.Duration `env:"DELAY_UNIT" envDefault:"1s"`
	BanksFile       string        `env:"BANKS_FILE"`
	RNGSeed         uint64        `env:"RNG_SEED"`
	AutoStart       bool          `env:"GAME_AUTO_START" envDefault:"false"`
}

// Trivia optionally extends the trivia bank from public trivia APIs at startup.
// A source with a zero amount is skipped.
type Trivia struct {
	OpenTDBURL      string        `env:"OPENTDB_URL"`
	OpenTDBAmount   int           `env:"OPENTDB_AMOUNT" envDefault:"0"`
	Difficulty      string        `env:"OPENTDB_DIFFICULTY" envDefault:"easy"`
	FetchTimeout    time.Duration `env:"OPENTDB_TIMEOUT" envDefault:"6s"`
	TriviaAPIURL    string        `env:"TRIVIA_API_URL"`
	TriviaAPIKey    string        `env:"TRIVIA_API_KEY"`
	TriviaAPIAmount int           `env:"TRIVIA_API_AMOUNT" envDefault:"0"`
	CacheTTL        time.Duration `env:"TRIVIA_CACHE_TTL" envDefault:"24h"`
}

// Scoreboard governs Redis keys and broadcast behavior.
type Scoreboard struct {
	TopN             int           `env:"SCOREBOARD_TOP" envDefault:"50"`
	PubSubChannel    string        `env:"SCOREBOARD_CHANNEL" envDefault:"scoreboard:updates"`
	KeyPrefix        string        `env:"SCOREBOARD_PREFIX" envDefault:"scoreboard"`
	SnapshotInterval time.Duration `env:"SCOREBOARD_SNAPSHOT_INTERVAL" envDefault:"1m"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: false}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadPostgres parses only the database settings, for tools that do not run the game.
func LoadPostgres() (Postgres, error) {
	var pg Postgres
	if err := env.Parse(&pg); err != nil {
		return Postgres{}, fmt.Errorf("parse postgres config: %w", err)
	}
	return pg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (a *App) Validate() error {
	if a.Security.AdminPassword == "" && a.Security.AdminPasswordHash == "" {
		return fmt.Errorf("one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be configured")
	}
	if a.Game.QuestionTimeout <= 0 {
		return fmt.Errorf("QUESTION_TIMEOUT must be positive")
	}
	if a.Game.DelayUnit <= 0 {
		return fmt.Errorf("DELAY_UNIT must be positive")
	}
	return nil
}
