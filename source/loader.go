package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"xcss/css"
)

// File is a loaded description file.
type File struct {
	Path  string // as it was passed to Load
	Name  string // document name, may be empty
	Sheet *css.Stylesheet
}

// loaded tracks every file seen by loader. Reference is created before file
// is parsed, so imports cycling back to the file get the same reference which
// is bound when file is complete.
type loaded struct {
	display string
	abs     string
	name    string
	ref     *css.StylesheetRef
	err     error
}

// Loader reads description files following imports. Every file is read once
// per loader, repeated loads and imports share the same stylesheet. Loader
// is not safe for concurrent use.
type Loader struct {
	log   *zap.Logger
	read  func(name string) ([]byte, error)
	files map[string]*loaded
}

type Option func(*Loader)

// WithReader replaces function used to read files, os.ReadFile by default.
func WithReader(read func(name string) ([]byte, error)) Option {
	return func(l *Loader) {
		l.read = read
	}
}

func NewLoader(log *zap.Logger, opts ...Option) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Loader{
		log:   log.Named("source"),
		read:  os.ReadFile,
		files: make(map[string]*loaded),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads description file and everything it imports. All problems found
// in the file and its imports are reported together.
func (l *Loader) Load(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve source path '%s': %w", path, err)
	}
	f, _ := l.load(abs, path)
	if f.err != nil {
		return nil, f.err
	}
	return &File{Path: path, Name: f.name, Sheet: f.ref.Stylesheet()}, nil
}

func (l *Loader) load(abs, display string) (*loaded, bool) {
	if f, ok := l.files[abs]; ok {
		return f, false
	}
	f := &loaded{display: display, abs: abs, ref: css.NewRef(display)}
	l.files[abs] = f

	l.log.Debug("Loading stylesheet", zap.String("path", display))

	doc, err := l.parse(abs)
	if err != nil {
		f.err = fmt.Errorf("%s: %w", display, err)
		return f, true
	}

	rules, err := l.rules(f, "rules", doc.Rules)
	if err != nil {
		f.err = err
		return f, true
	}
	if err := f.ref.Bind(css.NewStylesheet(doc.Vars, rules...)); err != nil {
		f.err = fmt.Errorf("%s: %w", display, err)
		return f, true
	}
	f.name = doc.Name
	return f, true
}

func (l *Loader) parse(abs string) (*document, error) {
	data, err := l.read(abs)
	if err != nil {
		return nil, fmt.Errorf("unable to read: %w", err)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to decode: %w", err)
	}
	return &doc, nil
}

func (l *Loader) rules(f *loaded, at string, entries []entry) ([]css.RuleNode, error) {
	var (
		out  []css.RuleNode
		errs error
	)
	for i, e := range entries {
		node, err := l.entry(f, fmt.Sprintf("%s[%d]", at, i), &e)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		if node != nil {
			out = append(out, node)
		}
	}
	return out, errs
}

// entry converts single rule entry. Returned errors are prefixed with file
// and entry position.
func (l *Loader) entry(f *loaded, pos string, e *entry) (css.RuleNode, error) {
	wrap := func(err error) error {
		return fmt.Errorf("%s: %s: %w", f.display, pos, err)
	}

	switch kinds := e.kinds(); len(kinds) {
	case 0:
		return nil, wrap(errors.New("empty rule entry"))
	case 1:
	default:
		return nil, wrap(fmt.Errorf("rule entry has several kinds: %s", strings.Join(kinds, ", ")))
	}

	switch {
	case e.Import != nil:
		return l.importOf(f, *e.Import)
	case e.ImportURL != nil:
		return css.ImportURLOf(e.ImportURL.URL, e.ImportURL.Media), nil
	case e.Charset != nil:
		return css.CharsetOf(*e.Charset), nil
	case e.Namespace != nil:
		return css.NamespaceOf(*e.Namespace), nil
	case e.Rule != nil:
		rule, err := css.NewRule(e.Rule.list...)
		if err != nil {
			return nil, wrap(fmt.Errorf("line %d: %w", e.Rule.line, err))
		}
		return rule, nil
	case e.Page != nil:
		page, err := css.NewPage(e.Page.list...)
		if err != nil {
			return nil, wrap(fmt.Errorf("line %d: %w", e.Page.line, err))
		}
		return page, nil
	case e.Media != nil:
		rules, err := l.rules(f, pos+".media.rules", e.Media.Rules)
		return css.NewMedia(e.Media.Query, rules...), err
	case e.Supports != nil:
		rules, err := l.rules(f, pos+".supports.rules", e.Supports.Rules)
		return css.NewSupports(e.Supports.Condition, rules...), err
	case e.Document != nil:
		rules, err := l.rules(f, pos+".document.rules", e.Document.Rules)
		return css.NewDocument(e.Document.Condition, e.Document.Vendor, rules...), err
	case e.Host != nil:
		rules, err := l.rules(f, pos+".host.rules", e.Host.Rules)
		return css.NewHost(rules...), err
	default:
		var (
			frames []*css.Keyframe
			errs   error
		)
		for i, a := range e.Keyframes.Frames {
			frame, err := css.NewKeyframe(a.list...)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %s.keyframes.frames[%d]: line %d: %w", f.display, pos, i, a.line, err))
				continue
			}
			frames = append(frames, frame)
		}
		return css.NewKeyframes(e.Keyframes.Name, e.Keyframes.Vendor, frames...), errs
	}
}

// importOf makes import directive, imported file is loaded when seen for the
// first time. Its errors are reported only once.
func (l *Loader) importOf(f *loaded, path string) (css.RuleNode, error) {
	abs, display := path, path
	if !filepath.IsAbs(path) {
		abs = filepath.Join(filepath.Dir(f.abs), path)
		display = filepath.Join(filepath.Dir(f.display), path)
	}
	imported, fresh := l.load(abs, display)
	if fresh && imported.err != nil {
		return css.ImportOf(imported.ref), imported.err
	}
	return css.ImportOf(imported.ref), nil
}
