package mimetypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		expected MIME
		want     bool
	}{
		{"WebM audio", "audio/webm", AudioWebM, true},
		{"WebM with codecs", "audio/webm; codecs=opus", AudioWebM, true},
		{"WAV", "audio/wav", AudioWAV, true},
		{"Mismatch", "audio/flac", AudioWAV, false},
		{"Invalid MIME", "not a mime", AudioWebM, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Matches(tt.detected, tt.expected)
			require.Equal(t, tt.want, ok)
		})
	}
}

func TestToEncoding(t *testing.T) {
	tests := []struct {
		detected string
		want     Encoding
		ok       bool
	}{
		{"audio/webm; codecs=opus", WebMOpus, true},
		{"video/webm", WebMOpus, true},
		{"audio/ogg", OggOpus, true},
		{"application/ogg", OggOpus, true},
		{"audio/wav", Linear16, true},
		{"audio/x-wav", Linear16, true},
		{"audio/flac", FLAC, true},
		{"audio/mpeg", EncodingUnspecified, false},
		{"application/octet-stream", EncodingUnspecified, false},
	}

	for _, tt := range tests {
		t.Run(tt.detected, func(t *testing.T) {
			got, ok := ToEncoding(tt.detected)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
