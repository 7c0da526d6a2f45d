// Package log provides a simple, leveled logging interface for the docuchat
// client packages.
//
// Five levels are supported, in increasing severity: LevelDebug, LevelInfo,
// LevelWarn, LevelError and LevelNone (which disables output). Messages below
// the configured level are filtered out.
//
// # Basic Usage
//
//	logger := log.NewStdLogger(log.LevelInfo)
//	logger.Info("session restored for %s", user.Email)
//	logger.Warn("logout request failed: %v", err)
//
// A package-level default logger is available for components that are not
// handed an explicit Logger:
//
//	log.SetLevel(log.LevelDebug)
//	log.Debug("request %s %s", method, path)
//
// # golog Integration
//
// For users who prefer github.com/kataras/golog, a minimal wrapper is
// provided:
//
//	glogger := golog.New()
//	glogger.SetPrefix("[myapp] ")
//	logger := log.NewGologLogger(glogger)
//
// Any type implementing the Logger interface can be plugged into the client
// constructors via their WithLogger options.
package log
