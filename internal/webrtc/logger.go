package webrtc

import (
	"github.com/pion/logging"
	"go.uber.org/zap"
)

// zapFactory routes pion's internal logs into zap, one named child per scope.
type zapFactory struct {
	log *zap.Logger
}

// NewLogger returns a leveled logger for scope.
func (f zapFactory) NewLogger(scope string) logging.LeveledLogger {
	return zapLeveled{log: f.log.Named(scope).Sugar()}
}

// zapLeveled adapts a sugared zap logger to pion's leveled interface.
// Trace is folded into Debug.
type zapLeveled struct {
	log *zap.SugaredLogger
}

func (l zapLeveled) Trace(msg string)                          { l.log.Debug(msg) }
func (l zapLeveled) Tracef(format string, args ...interface{}) { l.log.Debugf(format, args...) }
func (l zapLeveled) Debug(msg string)                          { l.log.Debug(msg) }
func (l zapLeveled) Debugf(format string, args ...interface{}) { l.log.Debugf(format, args...) }
func (l zapLeveled) Info(msg string)                           { l.log.Info(msg) }
func (l zapLeveled) Infof(format string, args ...interface{})  { l.log.Infof(format, args...) }
func (l zapLeveled) Warn(msg string)                           { l.log.Warn(msg) }
func (l zapLeveled) Warnf(format string, args ...interface{})  { l.log.Warnf(format, args...) }
func (l zapLeveled) Error(msg string)                          { l.log.Error(msg) }
func (l zapLeveled) Errorf(format string, args ...interface{}) { l.log.Errorf(format, args...) }

var _ logging.LoggerFactory = zapFactory{}
