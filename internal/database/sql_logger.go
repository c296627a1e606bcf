package database

import (
	"context"

	"github.com/hbomb79/Tubely/pkg/logger"
	sqldblogger "github.com/simukti/sqldb-logger"
)

// sqlLogger forwards sqldb-logger output to the DB logger. Queries are
// logged at VERBOSE, failures at ERROR.
type sqlLogger struct {
	logger logger.Logger
}

func (l *sqlLogger) Log(_ context.Context, level sqldblogger.Level, msg string, data map[string]any) {
	if level == sqldblogger.LevelError {
		l.logger.Errorf("%s: %v (query: %v)\n", msg, data["error"], data["query"])
		return
	}

	if query, ok := data["query"]; ok {
		l.logger.Verbosef("%s [%vms] %v\n", msg, data["duration"], query)
	} else {
		l.logger.Verbosef("%s [%vms]\n", msg, data["duration"])
	}
}
