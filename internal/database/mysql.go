package database

import (
	"context"
	"database/sql"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"olist-benchmark/internal/config"
)

type MySQLDriver struct {
	dsn string
}

func (md *MySQLDriver) Name() string { return "mysql" }

func (md *MySQLDriver) Connect(ctx context.Context) (Conn, error) {
	db, err := sql.Open("mysql", md.dsn)
	if err != nil {
		return nil, err
	}
	// database/sql pools by default; pin it to one physical connection so
	// each worker really owns a single session.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &mysqlConn{db: db}, nil
}

type mysqlConn struct {
	db *sql.DB
}

func (mc *mysqlConn) Query(ctx context.Context, query string) (int, error) {
	rows, err := mc.db.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	dest := make([]interface{}, len(cols))
	for i := range dest {
		dest[i] = new(sql.RawBytes)
	}

	n := 0
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return n, err
		}
		n++
	}
	return n, rows.Err()
}

func (mc *mysqlConn) Close(ctx context.Context) error {
	return mc.db.Close()
}

func MySQLDSN(cfg config.Database) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	return mc.FormatDSN()
}
