package service

import "github.com/MimeLyc/mkv-organizer/internal/jobs"

type Status = jobs.Status

const (
	StatusSuccess = jobs.StatusSuccess
	StatusSkipped = jobs.StatusSkipped
	StatusFailed  = jobs.StatusFailed
)

// Outcome is the result of processing one video.
type Outcome struct {
	Video         string
	Status        Status
	Output        string // target container path, known once classified
	SubtitleCount int
	AudioCount    int
	DeletedCount  int // originals removed after a successful merge
	Reason        error
}

func (o Outcome) JobStatus() jobs.Status {
	return o.Status
}

func Succeeded(video, output string, subs, audios int) Outcome {
	return Outcome{Video: video, Status: StatusSuccess, Output: output, SubtitleCount: subs, AudioCount: audios}
}

func Skipped(video, output string) Outcome {
	return Outcome{Video: video, Status: StatusSkipped, Output: output}
}

func Failed(video, output string, reason error) Outcome {
	return Outcome{Video: video, Status: StatusFailed, Output: output, Reason: reason}
}
