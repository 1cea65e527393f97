// Package logging configures the process-wide log output. Protocol
// responses own stdout, so all logging is written to a log file and stderr.
package logging

import (
	"io"
	"log"
	"os"
)

// failsafeWriter swallows write errors so a full disk or revoked file never
// aborts a request handler, and never stops the remaining writers of a
// MultiWriter from receiving the entry.
type failsafeWriter struct {
	w io.Writer
}

func (f failsafeWriter) Write(p []byte) (int, error) {
	_, _ = f.w.Write(p)
	return len(p), nil
}

// Setup directs the standard logger to the given log file and stderr, and
// returns the file handle for closing at shutdown. If the file cannot be
// opened, logging degrades to stderr only and the error is returned so the
// caller can note it.
func Setup(logFilePath string) (*os.File, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return nil, err
	}

	log.SetOutput(io.MultiWriter(failsafeWriter{f}, failsafeWriter{os.Stderr}))
	return f, nil
}
