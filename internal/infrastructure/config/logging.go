package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Persist writes worker and scheduler activity to the activity_logs table
	Persist bool `mapstructure:"persist"`

	// DedupWindow suppresses identical messages from the same worker for this
	// many millisols; 0 keeps every entry
	DedupWindow float64 `mapstructure:"dedup_window" validate:"gte=0"`
}
