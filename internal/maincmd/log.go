package maincmd

import (
	"os"

	"github.com/sirupsen/logrus"
)

// newLogger builds the structured progress logger every command uses for
// timing and stage fields (compile/run/setup/prove/verify). This is
// distinct from the deterministic `dbg!` program output and from
// printCompileError's plain diagnostic text, both of which always go
// straight to stdio: user-visible program output must stay unformatted,
// while this logger's output is operator-facing and gated by
// runtimeConfig.LogLevel.
func newLogger(cfg runtimeConfig) *logrus.Logger {
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	logger.SetLevel(lvl)
	return logger
}
