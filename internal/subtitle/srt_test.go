package subtitle_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hardsub/internal/subtitle"
)

func TestParseSRTValidTrack(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,500\nShalom\nSecond line\n\n2\n00:00:03,000 --> 00:00:04,000\nBye\n"
	cues, err := subtitle.ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Start != time.Second || cues[0].End != 2500*time.Millisecond {
		t.Fatalf("unexpected first cue window: %v --> %v", cues[0].Start, cues[0].End)
	}
	if len(cues[0].Lines) != 2 || cues[0].Lines[0] != "Shalom" {
		t.Fatalf("unexpected first cue text: %#v", cues[0].Lines)
	}
}

func TestParseSRTAcceptsCRLFAndPeriodMillis(t *testing.T) {
	content := "1\r\n00:00:01.000 --> 00:00:02.000\r\nHello\r\n\r\n"
	cues, err := subtitle.ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
}

func TestParseSRTEmptyContent(t *testing.T) {
	cues, err := subtitle.ParseSRT("   \n\n  ")
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(cues) != 0 {
		t.Fatalf("expected no cues, got %d", len(cues))
	}
}

func TestParseSRTMalformed(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"non numeric index", "one\n00:00:01,000 --> 00:00:02,000\nHi\n"},
		{"missing timing separator", "1\n00:00:01,000 00:00:02,000\nHi\n"},
		{"start not before end", "1\n00:00:02,000 --> 00:00:02,000\nHi\n"},
		{"minutes out of range", "1\n00:99:01,000 --> 00:99:02,000\nHi\n"},
		{"truncated block", "1\n"},
		{"starts go backwards", "1\n00:00:05,000 --> 00:00:06,000\nA\n\n2\n00:00:01,000 --> 00:00:02,000\nB\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := subtitle.ParseSRT(tc.content); !errors.Is(err, subtitle.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestWriteSRTReindexesAndPreservesText(t *testing.T) {
	content := "7\n00:00:01,000 --> 00:00:02,000\n<i>styled</i> text: a,b [c]\n\n9\n00:00:03,000 --> 00:00:04,000\nplain\n"
	cues, err := subtitle.ParseSRT(content)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}

	out := string(subtitle.WriteSRT(cues))
	if !strings.HasPrefix(out, "1\n00:00:01,000 --> 00:00:02,000\n") {
		t.Fatalf("expected reindexed first cue, got %q", out)
	}
	if !strings.Contains(out, "<i>styled</i> text: a,b [c]\n") {
		t.Fatalf("cue text was altered: %q", out)
	}
	if !strings.Contains(out, "\n2\n00:00:03,000 --> 00:00:04,000\n") {
		t.Fatalf("expected second cue reindexed to 2, got %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trailing newline, got %q", out)
	}

	reparsed, err := subtitle.ParseSRT(out)
	if err != nil {
		t.Fatalf("reparse of written track failed: %v", err)
	}
	if len(reparsed) != len(cues) {
		t.Fatalf("expected %d cues after round trip, got %d", len(cues), len(reparsed))
	}
}
