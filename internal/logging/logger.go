// Package logging provides categorized structured logging for the MCP
// server. Because stdout carries the MCP protocol stream, all log output
// goes to stderr via zap; logging defaults to disabled and is switched on
// with the --verbose flag or KAYAKO_DEBUG.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem for log filtering.
type Category string

const (
	CategoryBoot   Category = "boot"   // startup, configuration
	CategoryAPI    Category = "api"    // upstream Kayako HTTP calls
	CategoryTools  Category = "tools"  // tool registration and execution
	CategoryServer Category = "server" // MCP protocol traffic
)

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	loggers = make(map[Category]*zap.SugaredLogger)
)

// Initialize installs the process logger. With debug true it logs at
// debug level to stderr; otherwise logging is a no-op. Safe to call more
// than once; later calls replace the root logger.
func Initialize(debug bool) error {
	logger := zap.NewNop()
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		built, err := cfg.Build()
		if err != nil {
			return err
		}
		logger = built
	}

	mu.Lock()
	defer mu.Unlock()
	root = logger
	loggers = make(map[Category]*zap.SugaredLogger)
	return nil
}

// Get returns the sugared logger for a category.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := root.Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

// Sync flushes buffered log entries. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

// Convenience functions in the usual category/level grid.

func Boot(format string, args ...any)      { Get(CategoryBoot).Infof(format, args...) }
func BootDebug(format string, args ...any) { Get(CategoryBoot).Debugf(format, args...) }
func BootWarn(format string, args ...any)  { Get(CategoryBoot).Warnf(format, args...) }
func BootError(format string, args ...any) { Get(CategoryBoot).Errorf(format, args...) }

func API(format string, args ...any)      { Get(CategoryAPI).Infof(format, args...) }
func APIDebug(format string, args ...any) { Get(CategoryAPI).Debugf(format, args...) }
func APIWarn(format string, args ...any)  { Get(CategoryAPI).Warnf(format, args...) }
func APIError(format string, args ...any) { Get(CategoryAPI).Errorf(format, args...) }

func Tools(format string, args ...any)      { Get(CategoryTools).Infof(format, args...) }
func ToolsDebug(format string, args ...any) { Get(CategoryTools).Debugf(format, args...) }
func ToolsWarn(format string, args ...any)  { Get(CategoryTools).Warnf(format, args...) }
func ToolsError(format string, args ...any) { Get(CategoryTools).Errorf(format, args...) }

func Server(format string, args ...any)      { Get(CategoryServer).Infof(format, args...) }
func ServerDebug(format string, args ...any) { Get(CategoryServer).Debugf(format, args...) }
func ServerWarn(format string, args ...any)  { Get(CategoryServer).Warnf(format, args...) }
func ServerError(format string, args ...any) { Get(CategoryServer).Errorf(format, args...) }
