package config

import (
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
)

// ParseLogLevel maps LOG_LEVEL values onto gommon levels.
func ParseLogLevel(lvl string) (log.Lvl, error) {
	switch strings.ToUpper(strings.TrimSpace(lvl)) {
	case "DEBUG":
		return log.DEBUG, nil
	case "INFO", "":
		return log.INFO, nil
	case "WARN", "WARNING":
		return log.WARN, nil
	case "ERROR":
		return log.ERROR, nil
	case "OFF":
		return log.OFF, nil
	}
	return log.DEBUG, fmt.Errorf("not a valid log level: %s", lvl)
}
