// Package parser turns an ACMI text stream into a core.Recording.
package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/OCAP2/acmi/internal/classify"
	"github.com/OCAP2/acmi/internal/reader"
	"github.com/OCAP2/acmi/pkg/core"
)

const (
	fileTypeKey    = "FileType="
	fileVersionKey = "FileVersion="
	commentPrefix  = "//"
	globalSubject  = "0"
)

// Option configures a Parser.
type Option func(*Parser)

// WithVocabulary replaces the entity property table.
func WithVocabulary(v *Vocabulary) Option {
	return func(p *Parser) { p.vocab = v }
}

// WithMeter creates the parser counters on m instead of the global meter.
func WithMeter(m metric.Meter) Option {
	return func(p *Parser) { p.meter = m }
}

// WithClassifier replaces the type classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(p *Parser) { p.classifier = c }
}

// Parser holds immutable configuration and may be reused for any number of
// streams. Each Parse call builds its own state.
type Parser struct {
	logger     *slog.Logger
	vocab      *Vocabulary
	classifier *classify.Classifier
	meter      metric.Meter

	lines   metric.Int64Counter
	records metric.Int64Counter
	unknown metric.Int64Counter
}

// New creates a parser with the Tacview vocabulary and category table.
// Counters are taken from the global OTel meter unless WithMeter is given.
func New(logger *slog.Logger, opts ...Option) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{
		logger:     logger,
		vocab:      DefaultVocabulary(),
		classifier: classify.Default(),
		meter:      meter(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.initMetrics(p.meter); err != nil {
		logger.Warn("Failed to create parser metrics, continuing without them", "error", err)
		_ = p.initMetrics(noop.NewMeterProvider().Meter(InstrumentationName))
	}
	return p
}

func (p *Parser) initMetrics(m metric.Meter) error {
	var err error
	p.lines, err = m.Int64Counter(
		"acmi.parser.lines",
		metric.WithDescription("Logical lines read"),
	)
	if err != nil {
		return fmt.Errorf("creating lines counter: %w", err)
	}
	p.records, err = m.Int64Counter(
		"acmi.parser.records",
		metric.WithDescription("Property, timeframe and removal records applied"),
	)
	if err != nil {
		return fmt.Errorf("creating records counter: %w", err)
	}
	p.unknown, err = m.Int64Counter(
		"acmi.parser.unknown_properties",
		metric.WithDescription("Entity property writes with an unrecognized name"),
	)
	if err != nil {
		return fmt.Errorf("creating unknown properties counter: %w", err)
	}
	return nil
}

// Parse reads one ACMI stream to the end. The stream must already be decoded
// text (see reader.NewDecoder). On any fatal error no recording is returned.
// ctx only carries logging attributes; parsing is not cancellable.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*core.Recording, error) {
	s := newState(p)
	lr := reader.NewLineReader(r)
	defer func() {
		p.lines.Add(ctx, s.lineCount)
		p.records.Add(ctx, s.recordCount)
	}()

	for lr.Next() {
		if err := s.apply(ctx, lr.Line(), lr.LineNumber()); err != nil {
			return nil, &Error{Line: lr.LineNumber(), Err: err}
		}
	}

	if err := lr.Err(); err != nil {
		return nil, &Error{Line: lr.LineNumber(), Err: err}
	}
	if err := s.headerComplete(); err != nil {
		return nil, &Error{Line: lr.LineNumber(), Err: err}
	}

	rec := core.NewRecording(s.session, s.registry, s.timeframes, s.fields.names, s.diagnostics())
	p.logger.DebugContext(ctx, "Parsed ACMI stream",
		"title", s.session.Title,
		"entities", s.registry.Len(),
		"timeframes", len(s.timeframes),
		"unknownProperties", len(s.unknown))
	return rec, nil
}

type phase uint8

const (
	expectFileType phase = iota
	expectFileVersion
	streaming
)

// state is the mutable side of one Parse call.
type state struct {
	p *Parser

	phase      phase
	cursor     float64
	session    core.Session
	registry   *core.Registry
	timeframes []float64
	fields     *fieldSet

	unknown      map[string]*core.Diagnostic
	unknownOrder []string

	lineCount   int64
	recordCount int64
}

func newState(p *Parser) *state {
	return &state{
		p:        p,
		registry: core.NewRegistry(),
		fields:   newFieldSet(core.PropID, core.PropName, core.PropType, core.PropTags),
		unknown:  make(map[string]*core.Diagnostic),
	}
}

func (s *state) apply(ctx context.Context, raw string, lineNo int) error {
	s.lineCount++
	line := strings.TrimSpace(raw)

	switch s.phase {
	case expectFileType:
		v, ok := strings.CutPrefix(line, fileTypeKey)
		if !ok {
			return ErrMissingFileType
		}
		s.session.FileType = strings.TrimSpace(v)
		s.phase = expectFileVersion
		return nil

	case expectFileVersion:
		v, ok := strings.CutPrefix(line, fileVersionKey)
		if !ok {
			return ErrMissingFileVersion
		}
		version, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrMissingFileVersion, v)
		}
		if version < core.MinFileVersion {
			return fmt.Errorf("%w: %v (minimum %v)", ErrUnsupportedVersion, version, core.MinFileVersion)
		}
		s.session.FileVersion = version
		s.phase = streaming
		s.p.logger.DebugContext(ctx, "Accepted ACMI header",
			"fileType", s.session.FileType,
			"fileVersion", version)
		return nil
	}

	if line == "" || strings.HasPrefix(line, commentPrefix) {
		return nil
	}
	s.recordCount++

	switch line[0] {
	case '#':
		return s.setTimeframe(line[1:])
	case '-':
		return s.registry.MarkRemoved(strings.TrimSpace(line[1:]), s.cursor)
	}

	fields := reader.SplitFields(line)
	if fields[0] == globalSubject {
		return s.applyGlobal(fields[1:])
	}
	return s.applyEntity(ctx, fields[0], fields[1:], lineNo)
}

func (s *state) headerComplete() error {
	switch s.phase {
	case expectFileType:
		return ErrMissingFileType
	case expectFileVersion:
		return ErrMissingFileVersion
	}
	return nil
}

func (s *state) setTimeframe(v string) error {
	t, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || !finite(t) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeframe, v)
	}
	s.cursor = t
	if n := len(s.timeframes); n == 0 || s.timeframes[n-1] != t {
		s.timeframes = append(s.timeframes, t)
	}
	return nil
}

func (s *state) applyEntity(ctx context.Context, id string, fields []string, lineNo int) error {
	e := s.registry.GetOrCreate(id)

	for _, field := range fields {
		key, value, ok := reader.SplitProperty(field)
		if !ok {
			return fmt.Errorf("%w: %q", ErrMalformedField, field)
		}

		if key == core.PropType {
			s.setType(e, value)
			continue
		}

		switch s.p.vocab.Kind(key) {
		case KindComposite:
			if err := s.applyTransform(e, value); err != nil {
				return err
			}
			continue
		case KindText:
			e.Set(key, s.cursor, core.Text(reader.Unescape(value)))
		case KindNumber:
			f, err := parseNumber(value)
			if err != nil {
				return fmt.Errorf("property %s of %s: %w", key, id, err)
			}
			e.Set(key, s.cursor, core.Number(f))
		default:
			e.Set(key, s.cursor, core.Text(reader.Unescape(value)))
			s.noteUnknown(ctx, key, id, lineNo)
		}
		s.fields.add(key)
	}
	return nil
}

// setType stores the raw tags and classifies the entity while it has no label yet.
func (s *state) setType(e *core.Entity, raw string) {
	e.SetTags(s.cursor, raw)
	if !e.Classified() {
		e.SetTypeLabel(s.cursor, s.p.classifier.Classify(raw))
	}
}

// applyTransform decomposes a T value. Positions 0..2 are always longitude,
// latitude and altitude; the arity picks the meaning of the rest.
func (s *state) applyTransform(e *core.Entity, value string) error {
	pos := strings.Split(value, "|")

	var names []string
	switch len(pos) {
	case 5:
		names = []string{core.PropLongitude, core.PropLatitude, core.PropAltitude, core.PropU, core.PropV}
	case 6:
		names = []string{core.PropLongitude, core.PropLatitude, core.PropAltitude, core.PropRoll, core.PropPitch, core.PropYaw}
	case 9:
		names = []string{core.PropLongitude, core.PropLatitude, core.PropAltitude,
			core.PropRoll, core.PropPitch, core.PropYaw, core.PropU, core.PropV, core.PropHeading}
	default:
		names = []string{core.PropLongitude, core.PropLatitude, core.PropAltitude}
	}

	for i, name := range names {
		if i >= len(pos) || pos[i] == "" {
			continue
		}
		f, err := parseNumber(pos[i])
		if err != nil {
			return fmt.Errorf("T position %d (%s): %w", i, name, err)
		}
		switch name {
		case core.PropLongitude:
			f += s.session.ReferenceLongitude
		case core.PropLatitude:
			f += s.session.ReferenceLatitude
		}
		e.Set(name, s.cursor, core.Number(f))
		s.fields.add(name)
	}
	return nil
}

func (s *state) noteUnknown(ctx context.Context, key, id string, lineNo int) {
	s.p.unknown.Add(ctx, 1)
	if d, ok := s.unknown[key]; ok {
		d.Occurrences++
		return
	}
	s.unknown[key] = &core.Diagnostic{Property: key, EntityID: id, Line: lineNo, Occurrences: 1}
	s.unknownOrder = append(s.unknownOrder, key)
	s.p.logger.WarnContext(ctx, "Unknown entity property, stored as text",
		"property", key,
		"entity", id,
		"line", lineNo)
}

func (s *state) diagnostics() []core.Diagnostic {
	out := make([]core.Diagnostic, 0, len(s.unknownOrder))
	for _, key := range s.unknownOrder {
		out = append(out, *s.unknown[key])
	}
	return out
}

// parseNumber accepts finite floats only. NaN and infinities cannot be
// ordered as series keys nor encoded as JSON.
func parseNumber(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || !finite(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, v)
	}
	return f, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// fieldSet is an insertion-ordered set of property names.
type fieldSet struct {
	seen  map[string]struct{}
	names []string
}

func newFieldSet(initial ...string) *fieldSet {
	fs := &fieldSet{seen: make(map[string]struct{})}
	for _, name := range initial {
		fs.add(name)
	}
	return fs
}

func (fs *fieldSet) add(name string) {
	if _, ok := fs.seen[name]; ok {
		return
	}
	fs.seen[name] = struct{}{}
	fs.names = append(fs.names, name)
}
