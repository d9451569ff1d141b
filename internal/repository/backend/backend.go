package backend

import (
	"database/sql"
	"fmt"
	"time"

	// PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/config"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository/postgres"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository/rest"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/security"
)

// serviceTokenTTL bounds minted service tokens; a fresh one is signed per request
const serviceTokenTTL = 5 * time.Minute

// Connection is an opened collaborator
type Connection struct {
	Backend repository.Backend
	// Overdue is nil unless the backend is the database itself
	Overdue repository.OverdueMarker

	close func() error
}

func (c *Connection) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// Open connects to the collaborator named by cfg.Backend.Type. serviceName
// identifies the process in minted service tokens.
func Open(cfg *config.Config, tm security.TokenManager, serviceName string) (*Connection, error) {
	switch cfg.Backend.Type {
	case config.BackendPostgres:
		logger.Debug("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return FromDB(db)

	case config.BackendREST, "":
		logger.Info("Using IngRide REST API", "base_url", cfg.Backend.BaseURL, "timeout", cfg.BackendTimeout())
		client := rest.NewClient(cfg.Backend.BaseURL, cfg.BackendTimeout(), cfg.Backend.ServiceToken)
		if cfg.Backend.ServiceToken == "" {
			client.WithServiceTokenSource(func() (string, error) {
				return tm.GenerateServiceToken(serviceName, serviceTokenTTL)
			})
		}
		return &Connection{Backend: client}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Backend.Type)
	}
}

// FromDB wraps an opened database. The database is closed if it cannot be reached.
func FromDB(db *sql.DB) (*Connection, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Database connection established")
	store := postgres.NewStore(db)
	return &Connection{Backend: store, Overdue: store, close: db.Close}, nil
}
