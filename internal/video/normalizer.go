// ABOUTME: Turns a video URL into a transcript, captions first, speech-to-text second
// ABOUTME: The duration ceiling is enforced from probe metadata before any media transfer

package video

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
)

// Transcriber converts a local audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// NormalizerConfig bounds the transcript pipeline.
type NormalizerConfig struct {
	MaxDuration       time.Duration
	FetchTimeout      time.Duration
	TranscribeTimeout time.Duration
}

// Normalizer resolves a video URL to a transcript. Captions are preferred
// because they cost one small download; speech-to-text on the audio stream is
// the fallback when no usable caption track exists.
type Normalizer struct {
	cfg         NormalizerConfig
	prober      Prober
	fetcher     Fetcher
	transcriber Transcriber
	logger      *zap.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(cfg NormalizerConfig, prober Prober, fetcher Fetcher, transcriber Transcriber, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		cfg:         cfg,
		prober:      prober,
		fetcher:     fetcher,
		transcriber: transcriber,
		logger:      logger,
	}
}

// Normalize produces the transcript for a video URL.
func (n *Normalizer) Normalize(ctx context.Context, rawURL string) (*models.TranscriptResult, error) {
	videoID := ExtractVideoID(rawURL)
	if videoID == "" {
		return nil, errs.New(errs.KindSourceUnavailable, "not a recognizable video URL: %s", rawURL)
	}

	meta, err := n.prober.Probe(ctx, videoID)
	if err != nil {
		if errs.KindOf(err) != errs.KindUnknown {
			return nil, err
		}
		return nil, errs.Wrap(errs.KindSourceUnavailable, err, "failed to probe video %s", videoID)
	}

	duration := time.Duration(meta.DurationSeconds) * time.Second
	if duration > n.cfg.MaxDuration {
		return nil, errs.New(errs.KindLimitExceeded,
			"video is %.0f minutes long, the maximum is %.0f minutes",
			duration.Minutes(), n.cfg.MaxDuration.Minutes())
	}

	transcript, err := n.transcript(ctx, meta)
	if err != nil {
		return nil, err
	}

	return &models.TranscriptResult{
		SourceURL:       rawURL,
		VideoID:         meta.VideoID,
		Title:           meta.Title,
		Author:          meta.Author,
		DurationSeconds: meta.DurationSeconds,
		Transcript:      transcript,
	}, nil
}

func (n *Normalizer) transcript(ctx context.Context, meta *Metadata) (string, error) {
	if meta.CaptionURL != "" {
		transcript, err := n.fromCaptions(ctx, meta)
		if err == nil {
			return transcript, nil
		}
		n.logger.Warn("caption track unusable, falling back to speech-to-text",
			zap.String("video_id", meta.VideoID), zap.Error(err))
	}

	if meta.AudioURL != "" {
		return n.fromAudio(ctx, meta)
	}

	return "", errs.New(errs.KindSourceUnavailable,
		"video %s has no captions and no reachable audio stream", meta.VideoID)
}

func (n *Normalizer) fromCaptions(ctx context.Context, meta *Metadata) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.FetchTimeout)
	defer cancel()

	data, err := n.fetcher.Fetch(ctx, meta.CaptionURL)
	if err != nil {
		return "", err
	}
	return parseCaptions(data)
}

func (n *Normalizer) fromAudio(ctx context.Context, meta *Metadata) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, n.cfg.FetchTimeout)
	defer cancel()

	audio, err := n.fetcher.Fetch(fetchCtx, meta.AudioURL)
	if err != nil {
		return "", errs.Wrap(errs.KindSourceUnavailable, err, "failed to download audio for %s", meta.VideoID)
	}

	tmp, err := os.CreateTemp("", "postforge-audio-*.m4a")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(audio); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	transcribeCtx, cancel := context.WithTimeout(ctx, n.cfg.TranscribeTimeout)
	defer cancel()

	transcript, err := n.transcriber.Transcribe(transcribeCtx, tmp.Name())
	if err != nil {
		return "", errs.Wrap(errs.KindSourceUnavailable, err, "speech-to-text failed for %s", meta.VideoID)
	}
	return transcript, nil
}
