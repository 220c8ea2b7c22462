package config

// ConfigBackend abstracts where non-secret config values live. macOS
// stores them in UserDefaults via the `defaults` CLI, every other
// platform in a JSON file under the XDG config directory. Secrets never
// pass through a backend; they are read from the environment only.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
}
