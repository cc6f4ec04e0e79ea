package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"pltcm-dashboard/internal/config"
)

type Storage struct {
	db  *sql.DB
	loc *time.Location
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	loc, err := cfg.DisplayLocation()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := sql.Open("mysql", DSN(cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open db: %w", op, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLife)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping failed: %w", op, err)
	}

	return &Storage{db: db, loc: loc}, nil
}

// DSN builds the driver connection string. Timestamps are stored in UTC.
func DSN(c config.DB) string {
	mc := gomysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Loc = time.UTC

	return mc.FormatDSN()
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// inLoc converts a UTC timestamp into the display location.
func (s *Storage) inLoc(t time.Time) time.Time {
	if s.loc == nil {
		return t
	}
	return t.In(s.loc)
}
