package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/dmitrijs2005/mealbot/internal/common"
	"github.com/dmitrijs2005/mealbot/internal/logging"
	"github.com/dmitrijs2005/mealbot/internal/netx"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MaxMediaBytes caps voice note downloads.
const MaxMediaBytes = 10 << 20

type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)
	Close() error
}

type speechClient struct {
	c *speech.Client
}

func (s *speechClient) Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	return s.c.Recognize(ctx, req)
}

func (s *speechClient) Close() error { return s.c.Close() }

var (
	newRecognizer = func(ctx context.Context, opts ...option.ClientOption) (recognizer, error) {
		c, err := speech.NewClient(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return &speechClient{c: c}, nil
	}

	downloadMedia = netx.Download
)

type TranscriberConfig struct {
	AccountSID      string
	AuthToken       string
	LanguageCode    string
	SampleRate      int
	CredentialsFile string
}

// SpeechTranscriber turns WhatsApp voice notes into text.
type SpeechTranscriber struct {
	cfg    TranscriberConfig
	http   *http.Client
	logger logging.Logger

	mu     sync.Mutex
	client recognizer
}

func NewSpeechTranscriber(cfg TranscriberConfig, httpClient *http.Client, logger logging.Logger) *SpeechTranscriber {
	if logger == nil {
		logger = logging.Nop{}
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SpeechTranscriber{
		cfg:    cfg,
		http:   httpClient,
		logger: logger.With("module", "transcriber"),
	}
}

func (t *SpeechTranscriber) getClient(ctx context.Context) (recognizer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client != nil {
		return t.client, nil
	}

	var opts []option.ClientOption
	if t.cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(t.cfg.CredentialsFile))
	}

	c, err := newRecognizer(ctx, opts...)
	if err != nil {
		return nil, err
	}
	t.client = c
	return c, nil
}

// Transcribe downloads the media at mediaURL and returns the recognized text.
func (t *SpeechTranscriber) Transcribe(ctx context.Context, mediaURL string) (string, error) {
	audio, contentType, err := downloadMedia(ctx, t.http, mediaURL,
		netx.BasicAuth{User: t.cfg.AccountSID, Password: t.cfg.AuthToken}, MaxMediaBytes)
	if err != nil {
		t.logger.Warn(ctx, "media download failed", "error", err)
		return "", fmt.Errorf("%w: download: %v", common.ErrTranscriptionUnavailable, err)
	}
	t.logger.Debug(ctx, "media downloaded", "bytes", len(audio), "content_type", contentType)

	client, err := t.getClient(ctx)
	if err != nil {
		t.logger.Error(ctx, "speech client init failed", "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrTranscriptionUnavailable, err)
	}

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_OGG_OPUS,
			SampleRateHertz: int32(t.cfg.SampleRate),
			LanguageCode:    t.cfg.LanguageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		switch status.Code(err) {
		case codes.InvalidArgument:
			t.logger.Warn(ctx, "unsupported audio format", "content_type", contentType, "error", err)
		case codes.Unauthenticated, codes.PermissionDenied:
			t.logger.Error(ctx, "speech credentials rejected", "error", err)
		default:
			t.logger.Warn(ctx, "speech recognition failed", "code", status.Code(err).String(), "error", err)
		}
		return "", fmt.Errorf("%w: %v", common.ErrTranscriptionUnavailable, err)
	}

	var parts []string
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if s := strings.TrimSpace(alts[0].GetTranscript()); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no speech recognized", common.ErrTranscriptionUnavailable)
	}

	return strings.Join(parts, " "), nil
}

func (t *SpeechTranscriber) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}
