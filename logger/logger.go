package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Nuevo crea el logger de la aplicación. En desarrollo usa salida legible,
// en cualquier otro ambiente JSON.
func Nuevo(environment, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	nivel, err := zapcore.ParseLevel(level)
	if err != nil {
		nivel = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(nivel)

	return cfg.Build(zap.Fields(zap.String("service", "heydoctor-backend")))
}
