// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CreateFileLogger returns a logger that writes to both stdout and the
// given file. If the file cannot be opened it falls back to stdout only.
func CreateFileLogger(path string) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stdout}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.Warn().Err(err).Msgf("unable to open log file: %s", path)
		return zerolog.New(console).With().Timestamp().Logger()
	}

	multi := zerolog.MultiLevelWriter(console, file)
	return zerolog.New(multi).With().Timestamp().Logger()
}
