package subtitle

import (
	"fmt"
	"log/slog"
	"os"

	"hardsub/internal/logging"
)

// Normalizer validates raw subtitle files and rewrites them into the form
// the rendering engine accepts: canonical UTF-8 SRT on a fresh temp path.
// The input file is never mutated.
type Normalizer struct {
	workDir string
	logger  *slog.Logger
}

// NewNormalizer constructs a normalizer writing into workDir.
func NewNormalizer(workDir string, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		workDir: workDir,
		logger:  logging.NewComponentLogger(logger, "normalizer"),
	}
}

// Normalize validates rawPath and writes the normalized track to a fresh
// temporary file, returning its path. Parse failures return ErrMalformed;
// a track with zero cues returns ErrEmptyTrack.
func (n *Normalizer) Normalize(rawPath string) (string, error) {
	raw, err := os.ReadFile(rawPath)
	if err != nil {
		return "", fmt.Errorf("read subtitle: %w", err)
	}

	content, err := DecodeToUTF8(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	cues, err := ParseSRT(content)
	if err != nil {
		return "", err
	}
	if len(cues) == 0 {
		return "", ErrEmptyTrack
	}

	tmp, err := os.CreateTemp(n.workDir, "sub-*.srt")
	if err != nil {
		return "", fmt.Errorf("create normalized subtitle: %w", err)
	}
	if _, err := tmp.Write(WriteSRT(cues)); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write normalized subtitle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close normalized subtitle: %w", err)
	}

	n.logger.Debug("subtitle normalized",
		logging.String("source", rawPath),
		logging.String("normalized", tmp.Name()),
		logging.Int("cues", len(cues)),
	)
	return tmp.Name(), nil
}
