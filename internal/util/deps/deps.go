package deps

import (
	"fmt"
	"os"
	"os/exec"
)

// FindFFprobe returns the path to ffprobe. If customPath is non-empty, it
// tries that path or looks it up in PATH.
func FindFFprobe(customPath string) (string, error) {
	return find(customPath, "ffprobe")
}

// FindFFmpeg returns the path to ffmpeg, preferring customPath when set.
func FindFFmpeg(customPath string) (string, error) {
	return find(customPath, "ffmpeg")
}

func find(customPath, name string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("could not find %s at %q", name, customPath)
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find %s in PATH. Please install ffmpeg.", name)
}
