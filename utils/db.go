package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowQueryLogger GORM 日志器：只打印慢查询和真实错误
type SlowQueryLogger struct {
	SlowThreshold time.Duration
}

func (l *SlowQueryLogger) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

func (l *SlowQueryLogger) Info(ctx context.Context, msg string, data ...interface{}) {}

func (l *SlowQueryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {}

func (l *SlowQueryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[GORM Error] "+msg, data...)
}

func (l *SlowQueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	// record not found 是正常的业务分支，不记录
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		sql, rows := fc()
		log.Printf("[GORM Error] %s [%v] [rows:%d] %s", err, elapsed, rows, sql)
		return
	}
	if elapsed >= l.SlowThreshold {
		sql, rows := fc()
		log.Printf("[SLOW SQL] [%v] [rows:%d] %s", elapsed, rows, sql)
	}
}

// DBOptions 数据库连接参数
type DBOptions struct {
	URL           string
	MaxOpenConns  int
	MaxIdleConns  int
	SlowThreshold time.Duration
}

// OpenDB 打开 PostgreSQL 连接并配置连接池
func OpenDB(opts DBOptions) (*gorm.DB, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("database url is empty")
	}
	if opts.SlowThreshold == 0 {
		opts.SlowThreshold = 100 * time.Millisecond
	}

	db, err := gorm.Open(postgres.Open(opts.URL), &gorm.Config{
		Logger:         &SlowQueryLogger{SlowThreshold: opts.SlowThreshold},
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Println("✅ Database connected")
	return db, nil
}

// CloseDB 关闭数据库连接
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
