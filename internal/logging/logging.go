package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup configures the process-wide logger. The interactive binary owns the
// terminal, so it points out at a file or io.Discard instead of stderr.
func Setup(level string, out io.Writer) {
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

// FileOutput opens an append-mode log file for binaries that cannot log to
// the terminal. The caller owns the handle.
func FileOutput(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
