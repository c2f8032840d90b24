package subtitle_test

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"hardsub/internal/subtitle"
)

func TestDecodeToUTF8PassthroughAndBOM(t *testing.T) {
	plain := "1\n00:00:01,000 --> 00:00:02,000\nHello\n"
	decoded, err := subtitle.DecodeToUTF8([]byte(plain))
	if err != nil {
		t.Fatalf("DecodeToUTF8 failed: %v", err)
	}
	if decoded != plain {
		t.Fatalf("plain UTF-8 was altered: %q", decoded)
	}

	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte(plain)...)
	decoded, err = subtitle.DecodeToUTF8(withBOM)
	if err != nil {
		t.Fatalf("DecodeToUTF8 failed: %v", err)
	}
	if decoded != plain {
		t.Fatalf("expected BOM stripped, got %q", decoded)
	}
}

func TestDecodeToUTF8UTF16(t *testing.T) {
	text := "1\n00:00:01,000 --> 00:00:02,000\nשלום\n"
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("encode utf-16le: %v", err)
	}
	decoded, err := subtitle.DecodeToUTF8(encoded)
	if err != nil {
		t.Fatalf("DecodeToUTF8 failed: %v", err)
	}
	if decoded != text {
		t.Fatalf("utf-16 round trip mismatch: %q", decoded)
	}
}

func TestDecodeToUTF8Windows1255Fallback(t *testing.T) {
	text := "שלום"
	encoded, err := charmap.Windows1255.NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatalf("encode windows-1255: %v", err)
	}
	decoded, err := subtitle.DecodeToUTF8(encoded)
	if err != nil {
		t.Fatalf("DecodeToUTF8 failed: %v", err)
	}
	if decoded != text {
		t.Fatalf("windows-1255 fallback mismatch: %q", decoded)
	}
}
