package recorder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	artifactPrefix = "recording-"
	artifactExt    = ".wav"
	isoMillis      = "2006-01-02T15:04:05.000Z07:00"
	maxCollisions  = 5
)

// Artifact is a finalized recording on disk.
type Artifact struct {
	Path          string
	SizeBytes     int64
	Duration      time.Duration
	StartedAt     time.Time
	DroppedFrames int
}

// SizeKB is the file size in kilobytes.
func (a Artifact) SizeKB() float64 {
	return float64(a.SizeBytes) / 1024
}

// ArtifactName builds the file name for a recording started at t:
// recording-2024-01-02T03-04-05-678Z.wav
func ArtifactName(t time.Time) string {
	stamp := t.UTC().Format(isoMillis)
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return artifactPrefix + stamp + artifactExt
}

// createArtifact exclusively creates the recording file in dir. Two recordings
// in the same millisecond get a short random suffix instead of clobbering.
func createArtifact(dir string, t time.Time) (*os.File, error) {
	name := ArtifactName(t)
	for attempt := 0; attempt < maxCollisions; attempt++ {
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create artifact: %w", err)
		}
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		name = strings.TrimSuffix(ArtifactName(t), artifactExt) + "-" + suffix + artifactExt
	}
	return nil, fmt.Errorf("create artifact: too many name collisions in %s", dir)
}

// Preserved lists recordings left in dir, oldest first. Audio is only kept
// when a pipeline run failed or the process stopped mid-recording.
func Preserved(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, artifactPrefix+"*"+artifactExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
