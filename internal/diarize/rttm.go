package diarize

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RTTM is the line-oriented rich-transcription interchange format used to
// cache diarization results between runs. One SPEAKER record per turn:
//
//	SPEAKER <file-id> <channel> <onset> <duration> <NA> <NA> <speaker> <NA> <NA>

// WriteRTTM serializes turns as SPEAKER records with the given file id.
func WriteRTTM(w io.Writer, fileID string, turns []Turn) error {
	if fileID == "" {
		fileID = "input"
	}
	for _, t := range turns {
		_, err := fmt.Fprintf(w, "SPEAKER %s 1 %.3f %.3f <NA> <NA> %s <NA> <NA>\n",
			fileID, t.Start, t.End-t.Start, t.Speaker)
		if err != nil {
			return fmt.Errorf("failed to write RTTM record: %w", err)
		}
	}
	return nil
}

// ReadRTTM parses SPEAKER records into turns. Lines with other record types
// and blank lines are ignored.
func ReadRTTM(r io.Reader) ([]Turn, error) {
	var turns []Turn
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] != "SPEAKER" {
			continue
		}
		if len(fields) < 8 {
			return nil, fmt.Errorf("malformed RTTM line %d: %q", lineNo, line)
		}
		onset, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed RTTM onset on line %d: %w", lineNo, err)
		}
		duration, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed RTTM duration on line %d: %w", lineNo, err)
		}
		turns = append(turns, Turn{
			Speaker: fields[7],
			Start:   onset,
			End:     onset + duration,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read RTTM: %w", err)
	}
	return turns, nil
}
