package subtitle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cue is one subtitle block: an index, a display window, and text lines.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Lines []string
}

// ParseSRT decodes UTF-8 SRT content into cues. It enforces the structural
// rules the rendering engine relies on: numbered cues, valid timing lines,
// start < end per cue, and monotonically non-decreasing start times across
// the track. Structural violations return ErrMalformed.
func ParseSRT(content string) ([]Cue, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	trimmed := strings.TrimSpace(normalized)
	if trimmed == "" {
		return nil, nil
	}

	blocks := strings.Split(trimmed, "\n\n")
	cues := make([]Cue, 0, len(blocks))
	var lastStart time.Duration
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		cue, err := parseCue(block)
		if err != nil {
			return nil, err
		}
		if len(cues) > 0 && cue.Start < lastStart {
			return nil, fmt.Errorf("%w: cue %d starts at %s before preceding cue at %s",
				ErrMalformed, cue.Index, formatTimestamp(cue.Start), formatTimestamp(lastStart))
		}
		lastStart = cue.Start
		cues = append(cues, cue)
	}
	return cues, nil
}

func parseCue(block string) (Cue, error) {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		return Cue{}, fmt.Errorf("%w: cue block %q is truncated", ErrMalformed, firstLine(block))
	}

	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Cue{}, fmt.Errorf("%w: cue index %q is not numeric", ErrMalformed, strings.TrimSpace(lines[0]))
	}

	start, end, err := parseTimingLine(lines[1])
	if err != nil {
		return Cue{}, fmt.Errorf("%w: cue %d: %v", ErrMalformed, index, err)
	}
	if start >= end {
		return Cue{}, fmt.Errorf("%w: cue %d: start %s is not before end %s",
			ErrMalformed, index, formatTimestamp(start), formatTimestamp(end))
	}

	text := make([]string, 0, len(lines)-2)
	for _, line := range lines[2:] {
		text = append(text, strings.TrimRight(line, " \t"))
	}
	return Cue{Index: index, Start: start, End: end, Lines: text}, nil
}

func parseTimingLine(line string) (time.Duration, time.Duration, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("timing line %q missing separator", strings.TrimSpace(line))
	}
	start, err := parseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimestamp(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// SRT uses a comma before milliseconds; tolerate a period.
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 || millis < 0 || millis > 999 {
		return 0, fmt.Errorf("timestamp %q out of range", value)
	}
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return total, nil
}

func formatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	millis := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// WriteSRT renders cues back into canonical SRT form: sequential indexes
// starting at 1, comma millisecond separators, LF line endings, trailing
// newline. Cue text is preserved verbatim.
func WriteSRT(cues []Cue) []byte {
	var b strings.Builder
	for i, cue := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("\n")
		b.WriteString(formatTimestamp(cue.Start))
		b.WriteString(" --> ")
		b.WriteString(formatTimestamp(cue.End))
		b.WriteString("\n")
		for _, line := range cue.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return []byte(b.String())
}

func firstLine(block string) string {
	if idx := strings.IndexByte(block, '\n'); idx >= 0 {
		return block[:idx]
	}
	return block
}
