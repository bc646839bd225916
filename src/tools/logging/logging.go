// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package logging provides the structured loggers used by every
// component of the application.
package logging

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hexya-erp/saledeliverydate/src/tools/exceptions"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// log is the base logger of the application
var log = &zapLogger{}

// A Logger writes logs to a handler
type Logger interface {
	// Panic logs a error level message then panics
	Panic(msg string, ctx ...interface{})
	// Error logs an error level message
	Error(msg string, ctx ...interface{})
	// Warn logs a warning level message
	Warn(msg string, ctx ...interface{})
	// Info logs an information level message
	Info(msg string, ctx ...interface{})
	// Debug logs a debug level message. This may be very verbose
	Debug(msg string, ctx ...interface{})
	// New returns a child logger with the given context
	New(ctx ...interface{}) Logger
	// Sync the logger cache
	Sync() error
}

// zapLogger is an implementation of Logger using Uber's zap library
type zapLogger struct {
	ctx    []interface{}
	parent *zapLogger
	// root is the zap logger set by Initialize. It is only used by the
	// base logger.
	root atomic.Pointer[zap.SugaredLogger]
	// child caches the zap logger built from the parent's backend
	child atomic.Pointer[childBackend]
}

// childBackend is a zap logger built from the given parent backend
type childBackend struct {
	parent *zap.SugaredLogger
	zap    *zap.SugaredLogger
}

// Panic logs a error level message then panics
func (l *zapLogger) Panic(msg string, ctx ...interface{}) {
	if z := l.backend(); z != nil {
		z.Errorw(msg, ctx...)
	}
	panicData := msg + "\n"
	for i := 0; i+1 < len(ctx); i += 2 {
		panicData += fmt.Sprintf("\t%v : %v\n", ctx[i], ctx[i+1])
	}
	panic(panicData)
}

// Error logs an error level message
func (l *zapLogger) Error(msg string, ctx ...interface{}) {
	if z := l.backend(); z != nil {
		z.Errorw(msg, ctx...)
	}
}

// Warn logs a warning level message
func (l *zapLogger) Warn(msg string, ctx ...interface{}) {
	if z := l.backend(); z != nil {
		z.Warnw(msg, ctx...)
	}
}

// Info logs an information level message
func (l *zapLogger) Info(msg string, ctx ...interface{}) {
	if z := l.backend(); z != nil {
		z.Infow(msg, ctx...)
	}
}

// Debug logs a debug level message. This may be very verbose
func (l *zapLogger) Debug(msg string, ctx ...interface{}) {
	if z := l.backend(); z != nil {
		z.Debugw(msg, ctx...)
	}
}

// Sync the logger cache
func (l *zapLogger) Sync() error {
	z := l.backend()
	if z == nil {
		return errors.New("syncing a non-initialized logger")
	}
	return z.Sync()
}

// New returns a child logger with the given context
func (l *zapLogger) New(ctx ...interface{}) Logger {
	return &zapLogger{
		ctx:    ctx,
		parent: l,
	}
}

// backend returns the zap logger of l, or nil if Initialize has not
// been called yet.
//
// Child loggers build their backend from their parent's on first use and
// rebuild it when the parent's backend changes. It is safe for
// concurrent use.
func (l *zapLogger) backend() *zap.SugaredLogger {
	if l.parent == nil {
		return l.root.Load()
	}
	pz := l.parent.backend()
	if pz == nil {
		return nil
	}
	if cached := l.child.Load(); cached != nil && cached.parent == pz {
		return cached.zap
	}
	cb := &childBackend{parent: pz, zap: pz.With(l.ctx...)}
	l.child.Store(cb)
	return cb.zap
}

// Initialize starts the base logger from the viper configuration.
//
// Until Initialize is called, all loggers silently discard their messages.
func Initialize() {
	logConfig := zap.NewProductionConfig()
	if viper.GetBool("Debug") {
		logConfig = zap.NewDevelopmentConfig()
	}
	logLevel := zap.NewAtomicLevel()
	err := logLevel.UnmarshalText([]byte(viper.GetString("LogLevel")))
	if err != nil {
		fmt.Printf("error while reading log level. Falling back to info. Error: %s\n", err.Error())
		logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logConfig.Level = logLevel

	var outputPaths []string
	if viper.GetBool("LogStdout") {
		outputPaths = append(outputPaths, "stdout")
	}
	if path := viper.GetString("LogFile"); path != "" {
		outputPaths = append(outputPaths, path)
	}
	logConfig.OutputPaths = outputPaths

	plainLog, err := logConfig.Build()
	if err != nil {
		panic(err)
	}
	log.root.Store(plainLog.Sugar())

	log.Info("Logger initialized", "level", logLevel.String())
}

// GetLogger returns a context logger for the given module
func GetLogger(moduleName string) Logger {
	return log.New("module", moduleName)
}

// LogPanicData logs the panic data with stacktrace and returns an
// error with the panic message.
func LogPanicData(panicData interface{}) error {
	msg := fmt.Sprintf("%v", panicData)
	log.Error("Application panicked", "msg", msg)

	return exceptions.UserError{
		Message: msg,
		Debug:   fmt.Sprintf("%s\n\n%s", msg, debug.Stack()),
	}
}

// LogForGin returns a gin.HandlerFunc (middleware) that logs requests using Logger.
//
// Requests with errors are logged at error level, requests answered
// with a 4xx or 5xx status at warning level and others at info level.
func LogForGin(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// some evil middlewares modify this value
		path := c.Request.URL.Path
		c.Next()

		ctxLogger := logger.New(
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"latency", time.Since(start),
			"request_id", c.GetString("RequestID"),
		)

		switch {
		case len(c.Errors) > 0:
			ctxLogger.Error(c.Errors.String())
		case c.Writer.Status() >= 400:
			ctxLogger.Warn("HTTP Error")
		default:
			ctxLogger.Info("")
		}
	}
}
