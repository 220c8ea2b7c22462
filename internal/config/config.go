package config

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Retention RetentionConfig
	Log       LogConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type RetentionConfig struct {
	// Days is the maximum age of logged conversations. Zero disables
	// the retention sweeper entirely.
	Days          int
	SweepInterval string
}

type LogConfig struct {
	Level string
}

type AdminConfig struct {
	Token string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 5000,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Retention: RetentionConfig{
			Days:          0,
			SweepInterval: "1h",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend and
// environment variables.
//
// On macOS the backend is UserDefaults (domain: com.faqd.app).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/faqd/config.json.
//
// Environment variables (FAQD_*) override backend values on all
// platforms. The admin token is a secret and is read from the
// environment only (FAQD_ADMIN_TOKEN).
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}
