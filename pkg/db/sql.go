package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"taskmanager/pkg/config"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// MemoryPath sqlite 内存库路径
const MemoryPath = ":memory:"

// OpenSQL 打开 database/sql 连接（mysql / sqlite）
func OpenSQL(cfg config.DBConfig, logger *zap.Logger) (*sql.DB, error) {
	var (
		driverName string
		dsn        string
	)

	switch cfg.Driver {
	case DriverMySQL:
		mcfg := mysqlConfig(cfg)
		driverName, dsn = "mysql", mcfg.FormatDSN()
		logger.Info("Initializing MySQL connection",
			zap.String("addr", mcfg.Addr),
			zap.String("db", cfg.Name),
		)
	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = MemoryPath
		}
		driverName, dsn = "sqlite3", path
		logger.Info("Initializing SQLite connection", zap.String("path", path))
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		logger.Error("Failed to open database", zap.String("driver", cfg.Driver), zap.Error(err))
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		// 内存库只存在于单个连接中，连接不能被回收
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	} else {
		maxConns := 10
		if cfg.MaxConns > 0 {
			maxConns = int(cfg.MaxConns)
		}
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxIdleTime(time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		logger.Error("Database ping failed", zap.String("driver", cfg.Driver), zap.Error(err))
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	logger.Info("Database connection established successfully", zap.String("driver", cfg.Driver))
	return sqlDB, nil
}

func mysqlConfig(cfg config.DBConfig) *mysql.Config {
	mcfg := mysql.NewConfig()
	mcfg.User = cfg.User
	mcfg.Passwd = cfg.Password
	mcfg.Net = "tcp"
	mcfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mcfg.DBName = cfg.Name
	mcfg.ParseTime = true
	// RowsAffected 统计匹配行而不是变更行，否则写回原值的更新会被当成不存在
	mcfg.ClientFoundRows = true
	mcfg.Loc = time.UTC
	return mcfg
}
