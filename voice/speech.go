package voice

import (
	"context"
	"fmt"
	"log/slog"
	"share-lab/domain/mimetypes"
	"share-lab/errors"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/api/option"
	"google.golang.org/grpc/status"
)

// Browsers record opus at 48 kHz.
const defaultSampleRate = 48000

type SpeechConfig struct {
	// Endpoint overrides the default speech.googleapis.com:443 when set.
	Endpoint   string
	APIKey     string
	Language   string
	SampleRate int
	Timeout    time.Duration
}

// SpeechClient sends recordings to Google Speech-to-Text.
type SpeechClient struct {
	log    *slog.Logger
	cfg    SpeechConfig
	client *speech.Client
}

// NewSpeechClient dials the recognizer. Extra options are appended after the
// ones built from cfg.
func NewSpeechClient(ctx context.Context, log *slog.Logger, cfg SpeechConfig, opts ...option.ClientOption) (*SpeechClient, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = defaultSampleRate
	}
	var clientOpts []option.ClientOption
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	client, err := speech.NewClient(ctx, append(clientOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("%w: create client: %v", errors.ErrSpeechAPI, err)
	}
	return &SpeechClient{log: log, cfg: cfg, client: client}, nil
}

// Transcribe joins the best alternative of every result. The recognizer
// splits longer recordings into consecutive results.
func (s *SpeechClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	encoding, err := DetectEncoding(audio)
	if err != nil {
		return "", err
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	s.log.Debug("Sending audio to speech API", "size", len(audio), "encoding", encoding)
	resp, err := s.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        toAudioEncoding(encoding),
			SampleRateHertz: s.sampleRate(encoding),
			LanguageCode:    s.cfg.Language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		st := status.Convert(err)
		return "", fmt.Errorf("%w: %s (%s)", errors.ErrSpeechAPI, st.Message(), st.Code())
	}

	var parts []string
	for _, result := range resp.GetResults() {
		alternatives := result.GetAlternatives()
		if len(alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(alternatives[0].GetTranscript()); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", errors.ErrNoTranscript
	}
	return strings.Join(parts, " "), nil
}

func (s *SpeechClient) Close() error {
	return s.client.Close()
}

// Linear16 and FLAC carry their rate in the header.
func (s *SpeechClient) sampleRate(encoding mimetypes.Encoding) int32 {
	switch encoding {
	case mimetypes.WebMOpus, mimetypes.OggOpus:
		return int32(s.cfg.SampleRate)
	default:
		return 0
	}
}

func toAudioEncoding(encoding mimetypes.Encoding) speechpb.RecognitionConfig_AudioEncoding {
	return speechpb.RecognitionConfig_AudioEncoding(speechpb.RecognitionConfig_AudioEncoding_value[string(encoding)])
}

// DetectEncoding sniffs the recording and walks up the detected type
// hierarchy until a supported encoding is found.
func DetectEncoding(audio []byte) (mimetypes.Encoding, error) {
	detected := mimetype.Detect(audio)
	for m := detected; m != nil; m = m.Parent() {
		if encoding, ok := mimetypes.ToEncoding(m.String()); ok {
			return encoding, nil
		}
	}
	return mimetypes.EncodingUnspecified, fmt.Errorf("%w: %s", errors.ErrUnsupportedAudio, detected.String())
}
