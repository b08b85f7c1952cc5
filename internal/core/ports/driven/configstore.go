package driven

// ConfigStore provides persistent application configuration.
//
// Keys use dot notation for nesting, e.g. "llm.provider" or
// "execution.max_turns".
type ConfigStore interface {
	// Get retrieves a value by key, reporting whether it was found.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or the zero value when the key
	// is missing or not a string.
	GetString(key string) string

	// GetInt retrieves an integer value, or the zero value.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or the zero value.
	GetBool(key string) bool

	// Set stores a value by key and persists it.
	Set(key string, value any) error

	// Save persists the configuration.
	Save() error

	// Load reads the configuration from its backing store.
	Load() error

	// Path returns the location of the backing store, for diagnostics.
	Path() string
}
