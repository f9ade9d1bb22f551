package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == "prod" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	return config.Build()
}

func NewSugar(env string) (*zap.SugaredLogger, error) {
	logger, err := New(env)
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// BadgerAdapter routes Badger's log output through zap.
type BadgerAdapter struct {
	Log *zap.SugaredLogger
}

func (a BadgerAdapter) Errorf(format string, args ...interface{}) { a.Log.Errorf(format, args...) }
func (a BadgerAdapter) Warningf(format string, args ...interface{}) {
	a.Log.Warnf(format, args...)
}
func (a BadgerAdapter) Infof(format string, args ...interface{})  { a.Log.Debugf(format, args...) }
func (a BadgerAdapter) Debugf(format string, args ...interface{}) { a.Log.Debugf(format, args...) }
