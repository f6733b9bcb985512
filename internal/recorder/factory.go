// SPDX-License-Identifier: MIT

package recorder

import (
	"fmt"
	"path/filepath"

	"github.com/phantomlabs/phantom/internal/config"
	"github.com/phantomlabs/phantom/internal/log"
)

// New builds the recorder selected by configuration. Backend "none"
// returns nil, which disables replication in the session store entirely.
func New(cfg config.AppConfig) (Recorder, error) {
	logger := log.WithComponent("recorder")

	switch cfg.RecorderBackend {
	case "none", "":
		logger.Info().Msg("session system-of-record disabled")
		return nil, nil
	case "http":
		logger.Info().Str(log.FieldBackend, "http").Str("url", cfg.RecorderURL).
			Msg("session system-of-record enabled")
		return NewHTTPRecorder(cfg.RecorderURL, cfg.RecorderToken), nil
	case "badger":
		path := filepath.Join(cfg.DataDir, "sessions")
		rec, err := OpenBadgerRecorder(path)
		if err != nil {
			return nil, err
		}
		logger.Info().Str(log.FieldBackend, "badger").Str("path", path).
			Msg("session system-of-record enabled")
		return rec, nil
	default:
		return nil, fmt.Errorf("recorder: unknown backend %q", cfg.RecorderBackend)
	}
}
