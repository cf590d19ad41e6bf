package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Init replaces the global zap logger. Production uses JSON output; any other
// environment gets the human-readable development encoder.
func Init(environment, levelText string) error {
	if err := SetLevel(levelText); err != nil {
		return err
	}

	var conf zap.Config
	if environment == "production" {
		conf = zap.NewProductionConfig()
	} else {
		conf = zap.NewDevelopmentConfig()
	}
	conf.Level = level

	l, err := conf.Build()
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}

// SetLevel changes the level of the running logger. An empty string keeps the
// current level.
func SetLevel(levelText string) error {
	if levelText == "" {
		return nil
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(levelText)); err != nil {
		return fmt.Errorf("invalid log level %q -> %w", levelText, err)
	}
	level.SetLevel(lvl)

	return nil
}

func Level() zapcore.Level {
	return level.Level()
}
