package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"webmclip/internal/model"
	"webmclip/internal/util"
)

// OutputBasename builds a safe, informative base filename (without
// extension) from the source name, the trim window and the rate control.
func OutputBasename(req model.EncodeRequest) string {
	stem := strings.TrimSuffix(filepath.Base(req.InputPath), filepath.Ext(req.InputPath))
	if stem == "" || stem == "." {
		stem = "clip"
	}
	parts := []string{util.SanitizeFilename(stem)}

	if req.StartSec > 0 || req.HasEnd {
		parts = append(parts, fmt.Sprintf("%s-%s", secs(req.StartSec), secs(req.StartSec+req.DurationSec)))
	}

	switch req.RateMode {
	case model.RateCRF:
		if req.Quality != nil {
			parts = append(parts, fmt.Sprintf("crf%d", *req.Quality))
		}
	case model.RateLimit:
		parts = append(parts, fmt.Sprintf("%gMB", req.Limit))
	case model.RateBitrate:
		parts = append(parts, fmt.Sprintf("%gk", req.Limit))
	}
	return strings.Join(parts, "_")
}

// OutputPath returns dir/<basename>.webm.
func OutputPath(dir string, req model.EncodeRequest) string {
	return filepath.Join(dir, OutputBasename(req)+".webm")
}

func secs(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%gs", float64(int64(v*10))/10), ".", "_")
}
