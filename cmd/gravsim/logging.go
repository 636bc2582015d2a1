package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

const logFile = "logs/gravsim.log"

// setupLogging sends the standard logger to logs/gravsim.log under dir when
// debug is set and discards it otherwise, since the terminal belongs to the
// UI. The returned file, if any, must be closed by the caller.
func setupLogging(dir string, debug bool) (*os.File, error) {
	if !debug {
		log.SetOutput(io.Discard)
		return nil, nil
	}

	path := filepath.Join(dir, logFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Printf("gravsim: logging started")
	return f, nil
}
