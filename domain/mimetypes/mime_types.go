package mimetypes

import "mime"

type MIME string

const (
	Unknown   MIME = "unknown"
	AudioWebM MIME = "audio/webm"
	VideoWebM MIME = "video/webm"
	AudioOgg  MIME = "audio/ogg"
	AppOgg    MIME = "application/ogg"
	AudioWAV  MIME = "audio/wav"
	AudioWAVX MIME = "audio/x-wav"
	AudioFLAC MIME = "audio/flac"
)

// Encoding is the audio encoding name understood by the speech recognizer.
type Encoding string

const (
	EncodingUnspecified Encoding = "ENCODING_UNSPECIFIED"
	WebMOpus            Encoding = "WEBM_OPUS"
	OggOpus             Encoding = "OGG_OPUS"
	Linear16            Encoding = "LINEAR16"
	FLAC                Encoding = "FLAC"
)

// Browsers record webm even for audio only, hence both webm types.
var encodings = []struct {
	mime     MIME
	encoding Encoding
}{
	{AudioWebM, WebMOpus},
	{VideoWebM, WebMOpus},
	{AudioOgg, OggOpus},
	{AppOgg, OggOpus},
	{AudioWAV, Linear16},
	{AudioWAVX, Linear16},
	{AudioFLAC, FLAC},
}

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// ToEncoding maps a detected media type to its recognizer encoding.
func ToEncoding(detected string) (Encoding, bool) {
	for _, e := range encodings {
		if _, ok := Matches(detected, e.mime); ok {
			return e.encoding, true
		}
	}
	return EncodingUnspecified, false
}
