package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// zeroLogger adapts zerolog to calculation.Logger.
type zeroLogger struct {
	log zerolog.Logger
}

func newLogger(w io.Writer, debug bool) zeroLogger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zeroLogger{log: zerolog.New(w).Level(level).With().Timestamp().Str("app", "rpnl").Logger()}
}

func (z zeroLogger) Debugf(format string, args ...any) { z.log.Debug().Msg(fmt.Sprintf(format, args...)) }
func (z zeroLogger) Infof(format string, args ...any)  { z.log.Info().Msg(fmt.Sprintf(format, args...)) }
func (z zeroLogger) Warnf(format string, args ...any)  { z.log.Warn().Msg(fmt.Sprintf(format, args...)) }
func (z zeroLogger) Errorf(format string, args ...any) { z.log.Error().Msg(fmt.Sprintf(format, args...)) }
