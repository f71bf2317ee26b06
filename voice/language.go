package voice

import "github.com/abadojack/whatlanggo"

// DetectLanguage returns the ISO 639-1 code of the transcript, empty when
// the text is too short to tell.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
