// Package diagnostics carries the one logrus.Logger instance cmd/slua
// threads through its subcommands, replacing the teacher's bare
// fmt.Fprintf diagnostics with leveled, structured logging.
package diagnostics

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logger that writes text-formatted entries to stderr,
// at debug level when verbose is set and info level otherwise.
func New(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
