package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

const defaultMaxLoggedParamLength = 256

type zapWriter struct{ log *zap.SugaredLogger }

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.log.Debugf(format, args...)
}

// truncatingParamsLogger filters oversized SQL parameters before GORM prints SQL logs.
type truncatingParamsLogger struct {
	gormLogger.Interface
	maxLoggedParamLength int
}

// NewGormLogger routes GORM logs to zap. SQL is only traced at debug level.
func NewGormLogger(log *zap.Logger, level string) gormLogger.Interface {
	mode := gormLogger.Warn
	if level == "debug" {
		mode = gormLogger.Info
	}
	base := gormLogger.New(zapWriter{log: log.Sugar().Named("gorm")}, gormLogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  mode,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
	return newTruncatingParamsLogger(base)
}

func newTruncatingParamsLogger(base gormLogger.Interface) gormLogger.Interface {
	return &truncatingParamsLogger{
		Interface:            base,
		maxLoggedParamLength: defaultMaxLoggedParamLength,
	}
}

// LogMode keeps the wrapper when GORM derives a logger with another level.
func (l *truncatingParamsLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return &truncatingParamsLogger{
		Interface:            l.Interface.LogMode(level),
		maxLoggedParamLength: l.maxLoggedParamLength,
	}
}

// ParamsFilter truncates oversized parameter values to keep SQL logs concise.
func (l *truncatingParamsLogger) ParamsFilter(_ context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if len(params) == 0 {
		return sql, params
	}

	filtered := make([]interface{}, len(params))
	for idx, param := range params {
		filtered[idx] = sanitizeLoggedSQLParam(param, l.maxLoggedParamLength)
	}
	return sql, filtered
}

func sanitizeLoggedSQLParam(param interface{}, maxLoggedParamLength int) interface{} {
	switch value := param.(type) {
	case string:
		if len(value) > maxLoggedParamLength {
			return fmt.Sprintf("<string:len=%d,truncated>", len(value))
		}
		return value
	case []byte:
		if len(value) > maxLoggedParamLength {
			return fmt.Sprintf("<bytes:len=%d,truncated>", len(value))
		}
		return value
	default:
		return param
	}
}
