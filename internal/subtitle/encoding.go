package subtitle

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// DecodeToUTF8 converts raw subtitle bytes to UTF-8 text. BOM-marked UTF-8
// and UTF-16 inputs are honored; otherwise valid UTF-8 passes through and
// anything else is treated as Windows-1255, the legacy encoding of Hebrew
// SRT tracks this service was built around.
func DecodeToUTF8(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[len(bomUTF8):]), nil
	case bytes.HasPrefix(raw, bomUTF16BE):
		decoded, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("decode utf-16be subtitle: %w", err)
		}
		return string(decoded), nil
	case bytes.HasPrefix(raw, bomUTF16LE):
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("decode utf-16le subtitle: %w", err)
		}
		return string(decoded), nil
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.Windows1255.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode windows-1255 subtitle: %w", err)
	}
	return string(decoded), nil
}
