package voice

import (
	"context"
	"fmt"
	"log/slog"
	"share-lab/contract"
	"share-lab/domain"
	"share-lab/domain/event"
	"share-lab/errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Trigger turns spoken participant names into placements. It follows the
// roster through RosterUpdated events and only dispatches commands, the
// board decides whether the placement is possible.
type Trigger struct {
	log         *slog.Logger
	dispatcher  contract.Dispatcher
	emitter     contract.EventEmitter
	transcriber contract.Transcriber
	directory   *Directory
	debouncer   *Debouncer
	now         func() time.Time

	mu      sync.RWMutex
	matcher *NameMatcher
}

func NewTrigger(
	log *slog.Logger,
	dispatcher contract.Dispatcher,
	emitter contract.EventEmitter,
	transcriber contract.Transcriber,
	directory *Directory,
	window time.Duration,
) *Trigger {
	matcher, _ := NewNameMatcher(nil)
	return &Trigger{
		log:         log,
		dispatcher:  dispatcher,
		emitter:     emitter,
		transcriber: transcriber,
		directory:   directory,
		debouncer:   NewDebouncer(window),
		now:         time.Now,
		matcher:     matcher,
	}
}

func (t *Trigger) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.RosterUpdated)
	if !ok {
		return nil
	}
	names := lo.Map(evt.Participants, func(p domain.Participant, _ int) string { return p.Name })
	names = lo.Filter(names, func(name string, _ int) bool {
		return domain.Participant{Name: name}.IsPlaceable()
	})

	matcher, err := NewNameMatcher(names)
	if err != nil {
		return fmt.Errorf("build name matcher: %w", err)
	}
	t.mu.Lock()
	t.matcher = matcher
	t.mu.Unlock()

	if t.directory != nil {
		if err := t.directory.Replace(names); err != nil {
			return err
		}
	}
	return nil
}

// HandleAudio transcribes a recording then handles the transcript.
func (t *Trigger) HandleAudio(ctx context.Context, audio []byte) (event.VoiceMatched, error) {
	if t.transcriber == nil {
		return event.VoiceMatched{}, errors.ErrSpeechDisabled
	}
	transcript, err := t.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return event.VoiceMatched{}, err
	}
	return t.HandleTranscript(ctx, transcript)
}

// HandleTranscript places every participant named in the transcript.
// A name called again within the debounce window is reported as suppressed.
func (t *Trigger) HandleTranscript(ctx context.Context, transcript string) (event.VoiceMatched, error) {
	result := event.VoiceMatched{
		Transcript: transcript,
		Language:   DetectLanguage(transcript),
		At:         t.now(),
	}

	names, err := t.find(ctx, transcript)
	if err != nil {
		return result, err
	}
	if len(names) == 0 {
		t.log.Debug("No participant named", "transcript", transcript)
		return result, nil
	}

	for _, name := range names {
		if !t.debouncer.Allow(name) {
			t.log.Debug("Duplicate voice call suppressed", "name", name)
			result.Suppressed = append(result.Suppressed, name)
			continue
		}
		t.log.Info("Participant called by voice", "name", name, "lang", result.Language)
		result.Names = append(result.Names, name)
		t.dispatcher.Dispatch(domain.PlaceCommand{Name: name, Source: domain.SourceVoice})
	}
	t.emitter.Emit(result)
	return result, nil
}

// find uses exact matching first and falls back to the fuzzy directory token by token.
func (t *Trigger) find(ctx context.Context, transcript string) ([]string, error) {
	t.mu.RLock()
	matcher := t.matcher
	t.mu.RUnlock()

	if names := matcher.Match(transcript); len(names) > 0 {
		return names, nil
	}
	if t.directory == nil {
		return nil, nil
	}

	var names []string
	for _, token := range strings.Fields(transcript) {
		token = strings.TrimFunc(token, isNoise)
		if utf8.RuneCountInString(token) < minFuzzyRunes {
			continue
		}
		name, ok, err := t.directory.Lookup(ctx, token)
		if err != nil {
			return nil, err
		}
		if ok {
			names = append(names, name)
		}
	}
	return lo.Uniq(names), nil
}
