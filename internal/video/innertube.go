// ABOUTME: YouTube player metadata probe over the innertube API
// ABOUTME: Resolves duration, caption tracks, and an audio stream before anything is downloaded

package video

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/postforge/postforge/internal/errs"
)

const (
	playerEndpoint = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"

	// The ANDROID client gets direct stream URLs without signature ciphering.
	androidClientName    = "ANDROID"
	androidClientVersion = "19.09.37"
	androidUserAgent     = "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip"
)

// Metadata is what the probe learns about a video before any media transfer.
type Metadata struct {
	VideoID         string
	Title           string
	Author          string
	DurationSeconds int
	CaptionURL      string // json3 caption track URL, "" when the video has none
	AudioURL        string // best available audio-only stream, "" when unavailable
}

// Prober resolves video metadata from an id.
type Prober interface {
	Probe(ctx context.Context, videoID string) (*Metadata, error)
}

// InnertubeProber implements Prober against YouTube's player endpoint.
type InnertubeProber struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewInnertubeProber creates an InnertubeProber.
func NewInnertubeProber(timeout time.Duration) *InnertubeProber {
	return &InnertubeProber{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		VideoID       string `json:"videoId"`
		Title         string `json:"title"`
		Author        string `json:"author"`
		LengthSeconds string `json:"lengthSeconds"`
	} `json:"videoDetails"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []struct {
				BaseURL      string `json:"baseUrl"`
				LanguageCode string `json:"languageCode"`
				Kind         string `json:"kind"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	StreamingData struct {
		AdaptiveFormats []struct {
			URL      string `json:"url"`
			MimeType string `json:"mimeType"`
			Bitrate  int    `json:"bitrate"`
		} `json:"adaptiveFormats"`
	} `json:"streamingData"`
}

// Probe fetches player metadata for a video id.
func (p *InnertubeProber) Probe(ctx context.Context, videoID string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]interface{}{
		"videoId": videoID,
		"context": map[string]interface{}{
			"client": map[string]interface{}{
				"clientName":        androidClientName,
				"clientVersion":     androidClientVersion,
				"androidSdkVersion": 30,
				"hl":                "en",
			},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, playerEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindSourceUnavailable, err, "failed to reach video %s", videoID)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.KindSourceUnavailable, "video probe for %s returned status %d", videoID, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, errs.Wrap(errs.KindSourceUnavailable, err, "failed to read probe response for %s", videoID)
	}

	var pr playerResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, errs.Wrap(errs.KindSourceUnavailable, err, "unexpected probe response for %s", videoID)
	}

	if pr.PlayabilityStatus.Status != "OK" {
		reason := pr.PlayabilityStatus.Reason
		if reason == "" {
			reason = pr.PlayabilityStatus.Status
		}
		return nil, errs.New(errs.KindSourceUnavailable, "video %s is not playable: %s", videoID, reason)
	}

	seconds, _ := strconv.Atoi(pr.VideoDetails.LengthSeconds)
	meta := &Metadata{
		VideoID:         videoID,
		Title:           pr.VideoDetails.Title,
		Author:          pr.VideoDetails.Author,
		DurationSeconds: seconds,
		CaptionURL:      pickCaptionTrack(pr),
		AudioURL:        pickAudioStream(pr),
	}
	return meta, nil
}

// pickCaptionTrack prefers authored English captions over auto-generated ones,
// then any English track, then the first track at all.
func pickCaptionTrack(pr playerResponse) string {
	tracks := pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return ""
	}

	best := -1
	bestScore := -1
	for i, track := range tracks {
		score := 0
		if strings.HasPrefix(track.LanguageCode, "en") {
			score += 2
		}
		if track.Kind != "asr" {
			score++
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	base := tracks[best].BaseURL
	if strings.Contains(base, "fmt=") {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "fmt=json3"
}

// pickAudioStream returns the highest-bitrate audio-only adaptive format.
func pickAudioStream(pr playerResponse) string {
	formats := pr.StreamingData.AdaptiveFormats

	var audio []struct {
		URL      string `json:"url"`
		MimeType string `json:"mimeType"`
		Bitrate  int    `json:"bitrate"`
	}
	for _, f := range formats {
		if strings.HasPrefix(f.MimeType, "audio/") && f.URL != "" {
			audio = append(audio, f)
		}
	}
	if len(audio) == 0 {
		return ""
	}

	sort.Slice(audio, func(i, j int) bool { return audio[i].Bitrate > audio[j].Bitrate })
	return audio[0].URL
}
