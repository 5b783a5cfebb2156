package db

import "time"

// Config carries the connection settings for the service database. Values
// originate from the DB_* environment variables read by internal/config;
// Type selects the gorm dialector (postgres, mysql or sqlite).
type Config struct {
	Type     string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string

	// Pool knobs, applied to the underlying *sql.DB.
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}
