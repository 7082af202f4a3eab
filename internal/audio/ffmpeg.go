package audio

import (
	"fmt"
	"os/exec"
)

// FFmpegAvailable checks if ffmpeg is installed and available in PATH.
func FFmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// ExtractWAV extracts the audio track of a media file as 16kHz mono
// pcm_s16le WAV, the sample format the transcription models expect.
func ExtractWAV(mediaPath, wavPath string) error {
	if !FFmpegAvailable() {
		return fmt.Errorf("ffmpeg not found in PATH\nInstall: brew install ffmpeg (macOS) or apt install ffmpeg (Linux)")
	}

	cmd := exec.Command("ffmpeg",
		"-i", mediaPath,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		wavPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w\n%s", err, string(output))
	}
	return nil
}
