// Package logging configures the logrus logger used by the gateway and CLI.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Configure applies level and format ("text" or "json") to logger and
// directs it to out.
func Configure(
	logger *logrus.Logger,
	out io.Writer,
	level string,
	format string,
) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format '%s'", format)
	}

	logger.SetLevel(lvl)
	logger.SetOutput(out)
	return nil
}
