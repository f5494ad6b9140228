package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQuery is used when QueryLogOptions leaves SlowThreshold unset
const DefaultSlowQuery = 200 * time.Millisecond

// queryVerbosity orders what the query logger lets through
type queryVerbosity int

const (
	silentQueries queryVerbosity = iota
	failedQueries
	slowQueries
	writeQueries
	allQueries
)

// QueryObserver receives every traced statement
type QueryObserver func(verb, table string, elapsed time.Duration, err error)

// QueryLogOptions configures NewQueryLogger
type QueryLogOptions struct {
	// Level is the database log level: debug logs every statement, info
	// logs catalog writes, warn logs slow statements, error logs failures.
	Level         string
	SlowThreshold time.Duration
	Observe       QueryObserver
}

// QueryLogger implements gorm's logger.Interface on top of the database logger.
// Each statement is tagged with its verb and table, and the request id of the
// calling request is attached from the context.
type QueryLogger struct {
	log       *Logger
	verbosity queryVerbosity
	slow      time.Duration
	observe   QueryObserver
}

// NewQueryLogger builds the gorm logger for the catalog database
func NewQueryLogger(log *Logger, opts QueryLogOptions) *QueryLogger {
	slow := opts.SlowThreshold
	if slow <= 0 {
		slow = DefaultSlowQuery
	}
	return &QueryLogger{
		log:       log,
		verbosity: verbosityFor(opts.Level),
		slow:      slow,
		observe:   opts.Observe,
	}
}

func verbosityFor(level string) queryVerbosity {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return allQueries
	case "info":
		return writeQueries
	case "error":
		return failedQueries
	case "silent", "off":
		return silentQueries
	default:
		return slowQueries
	}
}

// LogMode lets gorm's Debug() and Session(Logger) switch verbosity
func (q *QueryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *q
	switch {
	case level <= gormlogger.Silent:
		next.verbosity = silentQueries
	case level == gormlogger.Error:
		next.verbosity = failedQueries
	case level == gormlogger.Warn:
		next.verbosity = slowQueries
	default:
		next.verbosity = allQueries
	}
	return &next
}

func (q *QueryLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if q.verbosity >= writeQueries {
		q.log.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (q *QueryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if q.verbosity >= slowQueries {
		q.log.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (q *QueryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if q.verbosity >= failedQueries {
		q.log.ErrorContext(ctx, fmt.Sprintf(msg, data...), nil)
	}
}

// Trace is called by gorm once per statement
func (q *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.verbosity == silentQueries && q.observe == nil {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	verb, table := describeStatement(sql)
	// a missed lookup is reported by the store as not found, not as a failure
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}
	if q.observe != nil {
		q.observe(verb, table, elapsed, err)
	}

	entry := q.log.WithFields(map[string]interface{}{
		"verb":        verb,
		"table":       table,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})

	switch {
	case err != nil && q.verbosity >= failedQueries:
		entry.WithField("sql", sql).ErrorContext(ctx, "Catalog query failed", err)
	case elapsed >= q.slow && q.verbosity >= slowQueries:
		entry.WithField("sql", sql).
			WithField("slow_threshold_ms", q.slow.Milliseconds()).
			WarnContext(ctx, "Slow catalog query")
	case isWrite(verb) && q.verbosity >= writeQueries:
		entry.InfoContext(ctx, "Catalog write")
	case q.verbosity >= allQueries:
		entry.WithField("sql", sql).DebugContext(ctx, "Catalog query")
	}
}

// describeStatement extracts the leading verb and the table a statement targets
func describeStatement(sql string) (verb, table string) {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "", ""
	}
	verb = strings.ToUpper(fields[0])

	marker := ""
	switch verb {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT":
		marker = "INTO"
	case "UPDATE":
		return verb, tableName(fields, 1)
	}
	for i, f := range fields {
		if marker != "" && strings.EqualFold(f, marker) {
			return verb, tableName(fields, i+1)
		}
	}
	return verb, ""
}

func tableName(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	name := strings.Trim(fields[i], "\"`'();")
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		name = name[dot+1:]
	}
	return strings.Trim(name, "\"`")
}

func isWrite(verb string) bool {
	switch verb {
	case "INSERT", "UPDATE", "DELETE":
		return true
	}
	return false
}
