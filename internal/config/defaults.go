package config

import "runtime"

const (
	defaultConfigPath         = "~/.config/fontsieve/config.toml"
	defaultInputDir           = "input"
	defaultOutputDir          = "output"
	defaultStateDir           = "~/.local/share/fontsieve"
	defaultBackend            = BackendInProcess
	defaultFlavor             = FlavorWOFF2
	defaultCompressionQuality = 8
	defaultExternalBinary     = "pyftsubset"
	defaultRetryBackoffMS     = 500
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Backend and flavor names accepted in configuration and on the command line.
const (
	BackendInProcess = "inprocess"
	BackendExternal  = "external"

	FlavorWOFF  = "woff"
	FlavorWOFF2 = "woff2"
)

var defaultExtensions = []string{"ttf", "otf", "woff", "woff2"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
		},
		Subset: Subset{
			Backend: defaultBackend,
			Flavor:  defaultFlavor,
			Workers: runtime.NumCPU(),
		},
		InProcess: InProcess{
			CompressionQuality: defaultCompressionQuality,
		},
		External: External{
			Binary:         defaultExternalBinary,
			RetryBackoffMS: defaultRetryBackoffMS,
		},
		Discovery: Discovery{
			Extensions: append([]string(nil), defaultExtensions...),
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
