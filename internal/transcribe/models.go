package transcribe

import (
	"path/filepath"
	"strings"
)

// Model represents one whisper quality/speed tier. Larger tiers trade
// latency for accuracy.
type Model struct {
	Name        string // Short name (e.g., "base", "large-v2")
	FileName    string // ggml filename (e.g., "ggml-base.bin")
	Size        string // Human-readable download size
	Description string
	URL         string // Download URL
}

// Models lists the available tiers, smallest first. The ".en" variants are
// English-only and slightly more accurate for English audio.
var Models = []Model{
	{Name: "tiny", FileName: "ggml-tiny.bin", Size: "75MB", Description: "Fastest, lowest accuracy"},
	{Name: "tiny.en", FileName: "ggml-tiny.en.bin", Size: "75MB", Description: "Fastest, English only"},
	{Name: "base", FileName: "ggml-base.bin", Size: "142MB", Description: "Fast, reasonable accuracy (default)"},
	{Name: "base.en", FileName: "ggml-base.en.bin", Size: "142MB", Description: "Fast, English only"},
	{Name: "small", FileName: "ggml-small.bin", Size: "466MB", Description: "Good accuracy"},
	{Name: "small.en", FileName: "ggml-small.en.bin", Size: "466MB", Description: "Good accuracy, English only"},
	{Name: "medium", FileName: "ggml-medium.bin", Size: "1.5GB", Description: "High accuracy, slower"},
	{Name: "medium.en", FileName: "ggml-medium.en.bin", Size: "1.5GB", Description: "High accuracy, English only"},
	{Name: "large", FileName: "ggml-large-v1.bin", Size: "2.9GB", Description: "Best accuracy, slowest"},
	{Name: "large-v2", FileName: "ggml-large-v2.bin", Size: "2.9GB", Description: "Best accuracy, improved training"},
}

func init() {
	const baseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"
	for i := range Models {
		Models[i].URL = baseURL + Models[i].FileName
	}
}

// DefaultModel is the tier used when none is configured.
const DefaultModel = "base"

// GetModel returns the model for a short name, or nil if unknown.
func GetModel(name string) *Model {
	name = strings.TrimPrefix(name, "ggml-")
	name = strings.TrimSuffix(name, ".bin")
	for i := range Models {
		if Models[i].Name == name {
			return &Models[i]
		}
	}
	return nil
}

// ValidModel reports whether name is a known tier.
func ValidModel(name string) bool {
	return GetModel(name) != nil
}

// ModelPath returns the ggml file path for a model name. Absolute paths are
// returned as-is so users can point at custom model files.
func ModelPath(modelsDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if name == "" {
		name = DefaultModel
	}
	if m := GetModel(name); m != nil {
		return filepath.Join(modelsDir, m.FileName)
	}
	if strings.HasSuffix(name, ".bin") {
		return filepath.Join(modelsDir, name)
	}
	return filepath.Join(modelsDir, "ggml-"+name+".bin")
}
