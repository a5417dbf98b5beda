package maincmd

import "github.com/caarlos0/env/v6"

// runtimeConfig holds the environment-variable operational knobs every
// command reads before running the compile/execute pipeline. These sit
// underneath the mainer.Parser flag layer (maincmd.go): flags cover the
// user-facing CLI surface, while these env vars cover operator-facing
// tuning (log verbosity, the for-loop unroll safety cap) that no flag
// exposes.
type runtimeConfig struct {
	LogLevel      string `env:"ZINC_LOG_LEVEL" envDefault:"warn"`
	MaxLoopUnroll int    `env:"ZINC_MAX_LOOP_UNROLL" envDefault:"1000000"`
}

// loadRuntimeConfig parses runtimeConfig from the environment, falling
// back to its defaults on a malformed value rather than aborting the
// command - these are operational tuning knobs, not required
// configuration.
func loadRuntimeConfig() runtimeConfig {
	cfg := runtimeConfig{}
	if err := env.Parse(&cfg); err != nil {
		return runtimeConfig{LogLevel: "warn", MaxLoopUnroll: 1000000}
	}
	return cfg
}
