// Package pipeline turns option edits into validated encode requests and
// compiled ffmpeg arguments.
package pipeline

import (
	"fmt"
	"log/slog"
	"sync"

	"webmclip/internal/encoder"
	"webmclip/internal/logging"
	"webmclip/internal/model"
	"webmclip/internal/options"
	"webmclip/internal/tracks"
	"webmclip/internal/validate"
)

// Result is the full replacement produced by one pass. Request and Args
// are set only when every field is valid.
type Result struct {
	Fields     options.Fields
	Validation validate.Result
	Request    *model.EncodeRequest
	Args       encoder.Args
	Text       string
}

// Valid reports whether the pass produced arguments.
func (r Result) Valid() bool { return r.Validation.AllValid && r.Request != nil }

// Evaluate runs one pass over a full snapshot: resolve, validate and, when
// valid, compile. Markers in the returned fields follow the resolved
// window. It has no side effects.
func Evaluate(media model.MediaInfo, cat tracks.Catalog, f options.Fields) Result {
	req, vres := Resolve(media, cat, f)
	res := Result{Fields: f, Validation: vres}
	if !vres.AllValid {
		return res
	}

	args := encoder.Compile(req)
	res.Request = &req
	res.Args = args
	res.Text = args.String()

	res.Fields.MarkStart = req.StartSec
	res.Fields.MarkEnd = 0
	if req.DurationSec < media.DurationSec {
		res.Fields.MarkEnd = req.StartSec + req.DurationSec
	}
	return res
}

// Service holds the current field snapshot for one source and the last
// good result. It is safe for concurrent use.
type Service struct {
	mu sync.Mutex

	media   model.MediaInfo
	catalog tracks.Catalog
	fields  options.Fields
	preset  *options.Fields
	last    *Result
	rawArgs string

	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMedia sets the probed source.
func WithMedia(m model.MediaInfo) Option {
	return func(s *Service) {
		s.media = m
	}
}

// WithFields seeds the snapshot instead of the per-source defaults.
func WithFields(f options.Fields) Option {
	return func(s *Service) {
		s.preset = &f
	}
}

// WithLogger attaches a logger for pass diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService constructs a Service and runs the initial pass.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.catalog = tracks.New(s.media.Tracks)
	if s.preset != nil {
		s.fields = *s.preset
	} else {
		s.fields = options.Defaults(s.catalog)
	}
	s.mu.Lock()
	s.pass(s.fields)
	s.mu.Unlock()
	return s
}

// Apply applies ev to the current snapshot and runs a pass. A malformed
// event leaves the snapshot untouched.
func (s *Service) Apply(ev options.Event) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(s.fields, ev)
}

// Submit replaces the snapshot with f, applies ev and runs a pass.
func (s *Service) Submit(f options.Fields, ev options.Event) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(f, ev)
}

// Current re-runs a pass over the current snapshot.
func (s *Service) Current() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pass(s.fields)
}

func (s *Service) apply(f options.Fields, ev options.Event) (Result, error) {
	env := options.Env{SourceDurationSec: s.media.DurationSec}
	if err := options.Apply(&f, ev, env); err != nil {
		return Result{}, fmt.Errorf("apply %s %s: %w", ev.Kind, ev.Field, err)
	}
	return s.pass(f), nil
}

// pass must be called with mu held.
func (s *Service) pass(f options.Fields) Result {
	res := Evaluate(s.media, s.catalog, f)
	s.fields = res.Fields
	if !res.Valid() {
		// The launcher never sees a line built from an older snapshot.
		s.rawArgs = ""
		s.logger.Debug("options invalid", "errors", res.Validation.Count())
		return res
	}
	s.last = &res
	s.rawArgs = res.Text
	s.logger.Debug("options compiled", "args", len(res.Args), "start", res.Request.StartSec, "duration", res.Request.DurationSec)
	return res
}

// Fields returns the current snapshot.
func (s *Service) Fields() options.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// Media returns the source descriptor.
func (s *Service) Media() model.MediaInfo {
	return s.media
}

// Catalog returns the source's track catalog.
func (s *Service) Catalog() tracks.Catalog {
	return s.catalog
}

// Last returns the most recent valid result. Invalid passes never
// replace it.
func (s *Service) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// SetRawArgs stores a hand-edited argument line. The next pass
// overwrites it: with the compiled text when valid, with "" otherwise.
func (s *Service) SetRawArgs(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawArgs = text
}

// RawArgs returns the argument line to hand to the launcher: the current
// compiled text, or the user's edit of it. It is empty while the current
// snapshot is invalid.
func (s *Service) RawArgs() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawArgs
}
