package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// ConvertToWAV produces a WAV file at wavPath from a local audio input.
// MP3 is decoded in pure Go; WAV inputs are copied as-is. Other containers
// fall back to ffmpeg.
func ConvertToWAV(audioPath, wavPath string) error {
	switch strings.ToLower(filepath.Ext(audioPath)) {
	case ".wav":
		return copyFile(audioPath, wavPath)
	case ".mp3":
		return convertMP3(audioPath, wavPath)
	default:
		return ExtractWAV(audioPath, wavPath)
	}
}

// convertMP3 decodes an MP3 file and re-encodes it as 16-bit stereo WAV.
func convertMP3(mp3Path, wavPath string) error {
	f, err := os.Open(mp3Path)
	if err != nil {
		return fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return fmt.Errorf("failed to decode MP3: %w", err)
	}

	// go-mp3 emits 16-bit little-endian stereo PCM.
	raw, err := io.ReadAll(decoder)
	if err != nil {
		return fmt.Errorf("failed to read MP3 samples: %w", err)
	}

	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[i*2:])))
	}

	out, err := os.Create(wavPath)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}
	defer out.Close()

	encoder := wav.NewEncoder(out, decoder.SampleRate(), 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: decoder.SampleRate()},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy audio: %w", err)
	}
	return nil
}
