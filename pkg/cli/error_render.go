package cli

import (
	"errors"
	"strings"

	"github.com/jlrickert/indihash/pkg/digest"
	"github.com/jlrickert/indihash/pkg/indihash"
)

func renderUserError(err error, deps *Deps) string {
	if err == nil {
		return ""
	}

	var cfgErr *indihash.InvalidConfigError
	if errors.As(err, &cfgErr) {
		if isDebugLogLevel(deps) && deps.ConfigPath != "" {
			return cfgErr.Error() + " (config: " + deps.ConfigPath + ")"
		}
		return cfgErr.Error()
	}

	var unknownErr *digest.UnknownAlgorithmError
	if errors.As(err, &unknownErr) {
		return unknownErr.Error() + "; choose one of " + strings.Join(digest.Names(), ", ")
	}

	return indihash.ErrorMessage(err)
}

func isDebugLogLevel(deps *Deps) bool {
	if deps == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(deps.LogLevel), "debug")
}
