// Package logging configures the global zerolog logger and emits the startup
// summary.
package logging

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global logger with configuration from environment variables.
// POSTBOT_LOG_LEVEL controls the log level: debug, info, warn, error (default: info)
func Init() {
	level := os.Getenv("POSTBOT_LOG_LEVEL")
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// Startup emits a single structured event summarizing how the bot was
// configured, so a misconfigured run is obvious from the first log line.
// Only non-sensitive values are logged, never credentials.
func Startup(name string, config map[string]string, features map[string]bool) {
	evt := log.Info().
		Dict("runtime", zerolog.Dict().
			Str("name", name).
			Str("goVersion", runtime.Version()).
			Str("arch", runtime.GOARCH).
			Str("logLevel", os.Getenv("POSTBOT_LOG_LEVEL")))

	if len(config) > 0 {
		d := zerolog.Dict()
		for k, v := range config {
			d = d.Str(k, v)
		}
		evt = evt.Dict("config", d)
	}
	if len(features) > 0 {
		d := zerolog.Dict()
		for k, v := range features {
			d = d.Bool(k, v)
		}
		evt = evt.Dict("features", d)
	}

	evt.Msg("Startup complete")
}
