package service

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/MimeLyc/mkv-organizer/internal/config"
	"github.com/MimeLyc/mkv-organizer/internal/library"
	"github.com/MimeLyc/mkv-organizer/internal/media"
	"github.com/MimeLyc/mkv-organizer/internal/subtitle"
	"github.com/MimeLyc/mkv-organizer/pkg/file"
	"github.com/MimeLyc/mkv-organizer/pkg/log"
)

// Organizer turns one source video into one library container.
type Organizer struct {
	cfg        config.Config
	classifier *library.Classifier
	matcher    *library.AssetMatcher
	resolver   *subtitle.Resolver
	muxer      media.Muxer
	remove     func(string) error
}

type OrganizerOption func(*Organizer)

func WithResolver(r *subtitle.Resolver) OrganizerOption {
	return func(o *Organizer) {
		o.resolver = r
	}
}

// WithRemover replaces os.Remove for deleting originals.
func WithRemover(remove func(string) error) OrganizerOption {
	return func(o *Organizer) {
		o.remove = remove
	}
}

func NewOrganizer(cfg config.Config, muxer media.Muxer, opts ...OrganizerOption) *Organizer {
	o := &Organizer{
		cfg:        cfg,
		classifier: library.NewClassifier(),
		matcher:    library.NewAssetMatcher(cfg.ExtSub, cfg.ExtAudio),
		muxer:      muxer,
		remove:     os.Remove,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.resolver == nil {
		o.resolver = subtitle.NewResolver(subtitle.DefaultTable())
	}
	return o
}

// ProcessOne classifies videoPath, gathers its sidecars and merges them.
// Existing targets are never overwritten. In dry-run mode nothing on disk
// changes.
func (o *Organizer) ProcessOne(videoPath string) Outcome {
	info := o.classifier.Classify(videoPath)
	targetDir := info.TargetDir(o.cfg.OutputRoot)
	output := file.ReplaceExt(filepath.Join(targetDir, filepath.Base(videoPath)), ".mkv")

	if _, err := os.Stat(output); err == nil {
		log.Info("Skipping %s: %s already exists", filepath.Base(videoPath), output)
		return Skipped(videoPath, output)
	}

	assets := o.matcher.FindAssets(videoPath)
	subs, audios := len(assets.Subtitles), len(assets.Audios)

	if o.cfg.DryRun {
		log.Info("[dry-run] %s -> %s (%d subtitles, %d audio)", filepath.Base(videoPath), output, subs, audios)
		return Succeeded(videoPath, output, subs, audios)
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return Failed(videoPath, output,
			WrapError(err, ErrDirectoryCreate, "create target directory").WithContext("dir", targetDir))
	}

	req := o.buildRequest(videoPath, output, assets)
	if err := o.muxer.Mux(req); err != nil {
		return Failed(videoPath, output, classifyMuxError(err, videoPath))
	}

	log.Info("Merged %s -> %s (%d subtitles, %d audio)", filepath.Base(videoPath), output, subs, audios)
	outcome := Succeeded(videoPath, output, subs, audios)

	if o.cfg.DeleteOriginals {
		outcome.DeletedCount = o.deleteOriginals(videoPath, assets)
	}
	return outcome
}

func (o *Organizer) buildRequest(videoPath, output string, assets library.FoundAssets) media.MuxRequest {
	req := media.MuxRequest{
		Video:  videoPath,
		Output: output,
	}

	for _, sub := range assets.Subtitles {
		lang := o.resolver.Resolve(sub)
		log.Debug("Subtitle %s resolved to %s (%s)", filepath.Base(sub), lang.ISO3, lang.Name)
		req.Subtitles = append(req.Subtitles, media.SubtitleTrack{
			Path:     sub,
			Language: lang.ISO3,
			Name:     lang.Name,
			Default:  lang.ISO3 == o.cfg.DefaultSubLang,
		})
	}

	for _, audio := range assets.Audios {
		req.Audios = append(req.Audios, media.AudioTrack{
			Path:     audio,
			Language: media.DefaultAudioLanguage,
			Name:     media.DefaultAudioName,
		})
	}

	return req
}

func classifyMuxError(err error, videoPath string) *OrgError {
	var exitErr *media.ExitError
	if errors.As(err, &exitErr) {
		return WrapError(err, ErrMuxerExit, "mkvmerge failed").
			WithContext("video", videoPath).
			WithContext("status", exitErr.Code)
	}

	var spawnErr *media.SpawnError
	if errors.As(err, &spawnErr) {
		return WrapError(err, ErrSubprocessSpawn, "could not start mkvmerge").WithContext("video", videoPath)
	}

	return WrapError(err, ErrUnknown, "mux").WithContext("video", videoPath)
}

// deleteOriginals removes the video and its sidecars. Failures are logged
// and otherwise ignored; the merged output is already in place.
func (o *Organizer) deleteOriginals(videoPath string, assets library.FoundAssets) int {
	deleted := 0
	for _, path := range append([]string{videoPath}, assets.All()...) {
		if err := o.remove(path); err != nil {
			log.Warn("%v", WrapError(err, ErrDeletion, "delete original").WithContext("path", path))
			continue
		}
		deleted++
	}
	return deleted
}
