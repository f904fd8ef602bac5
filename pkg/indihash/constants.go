package indihash

import "time"

const (
	// ConfigAppName is the base directory name used for indihash
	// configuration, e.g. $XDG_CONFIG_HOME/indihash/config.yaml.
	ConfigAppName = "indihash"

	// ConfigFileName is the config file looked up inside the config dir.
	ConfigFileName = "config.yaml"

	// DefaultDebounce is how long a watched file must stay quiet before it
	// is hashed again.
	DefaultDebounce = 120 * time.Millisecond
)

// User-facing status texts.
const (
	MsgPrompt              = "Enter a filename and a hashing algorithm"
	MsgNoAlgorithmSelected = "No hashing algorithm selected"
	MsgCannotOpen          = "Cannot open file"
	MsgCannotRead          = "Cannot read file"

	// NoneLabel is the selection entry at index 0.
	NoneLabel = "None"
)
