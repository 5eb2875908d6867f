package db

import (
	"fmt"
	"time"

	"civic-commons/townhall/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

const connectAttempts = 10

// InitSQLX returns the read-side handle used by the reporting queries.
// With sqlite the gorm connection pool is shared, since an in-memory database is per connection.
func InitSQLX(cfg *config.Config, orm *gorm.DB) (*sqlx.DB, error) {
	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := orm.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
		}
		return sqlx.NewDb(sqlDB, "sqlite3"), nil
	}

	var (
		conn *sqlx.DB
		err  error
	)
	for i := 0; i < connectAttempts; i++ {
		conn, err = sqlx.Connect("postgres", cfg.PostgresDSN())
		if err == nil {
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres via sqlx: %w", err)
}
