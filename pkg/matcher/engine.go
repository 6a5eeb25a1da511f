package matcher

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/rulebook/pkg/errors"
	"github.com/dlclark/regexp2"
)

// Engine names accepted by EngineByName
const (
	EngineRegexp2 = "regexp2"
	EngineRE2     = "re2"
)

// Pattern is a compiled rule pattern
type Pattern interface {
	// MatchString reports whether the pattern matches anywhere in text
	MatchString(text string) (bool, error)
}

// Engine compiles rule patterns
type Engine interface {
	Name() string
	Compile(expr string) (Pattern, error)
}

// EngineNames lists the engines EngineByName knows
func EngineNames() []string {
	names := []string{EngineRegexp2, EngineRE2}
	sort.Strings(names)
	return names
}

// EngineByName builds an engine from its configured name. timeout only
// applies to regexp2; zero leaves matching unbounded.
func EngineByName(name string, timeout time.Duration) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineRegexp2:
		return NewRegexp2Engine(timeout), nil
	case EngineRE2:
		return NewRE2Engine(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigValid, "unknown matcher engine %q", name).
			WithDetail("available", EngineNames())
	}
}

// Regexp2Engine compiles patterns with github.com/dlclark/regexp2
type Regexp2Engine struct {
	timeout time.Duration
}

// NewRegexp2Engine returns the default engine
func NewRegexp2Engine(timeout time.Duration) *Regexp2Engine {
	return &Regexp2Engine{timeout: timeout}
}

// Name implements Engine
func (e *Regexp2Engine) Name() string { return EngineRegexp2 }

// Timeout is the per-match limit, zero for none
func (e *Regexp2Engine) Timeout() time.Duration { return e.timeout }

// Compile implements Engine
func (e *Regexp2Engine) Compile(expr string) (Pattern, error) {
	re, err := regexp2.Compile(FromPython(expr), regexp2.None)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMalformedPattern, "invalid pattern %q", expr)
	}
	if e.timeout > 0 {
		re.MatchTimeout = e.timeout
	}
	return regexp2Pattern{re: re, timeout: e.timeout}, nil
}

type regexp2Pattern struct {
	re      *regexp2.Regexp
	timeout time.Duration
}

func (p regexp2Pattern) MatchString(text string) (bool, error) {
	ok, err := p.re.MatchString(text)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrMatchTimeout, "pattern %q exceeded %s", p.re.String(), p.timeout)
	}
	return ok, nil
}

// RE2Engine compiles patterns with the standard library regexp package
type RE2Engine struct{}

// NewRE2Engine returns the linear-time engine
func NewRE2Engine() *RE2Engine {
	return &RE2Engine{}
}

// Name implements Engine
func (e *RE2Engine) Name() string { return EngineRE2 }

// Compile implements Engine
func (e *RE2Engine) Compile(expr string) (Pattern, error) {
	re, err := regexp.Compile(FromPython(expr))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMalformedPattern, "invalid pattern %q", expr)
	}
	return re2Pattern{re: re}, nil
}

type re2Pattern struct {
	re *regexp.Regexp
}

func (p re2Pattern) MatchString(text string) (bool, error) {
	return p.re.MatchString(text), nil
}

// Describe names the engine and its timeout for logs and the version output
func Describe(e Engine) string {
	if r, ok := e.(*Regexp2Engine); ok && r.timeout > 0 {
		return fmt.Sprintf("%s (timeout %s)", r.Name(), r.timeout)
	}
	return e.Name()
}

// FromPython rewrites the Python re constructs that the engines spell
// differently: (?P<name> becomes (?<name>, (?P=name) becomes \k<name> and
// \Z, which in Python only matches at the very end of text, becomes \z.
// Escaped characters are copied untouched.
func FromPython(expr string) string {
	if !strings.Contains(expr, "(?P") && !strings.Contains(expr, `\Z`) {
		return expr
	}
	var b strings.Builder
	b.Grow(len(expr))
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '\\' && i+1 < len(expr):
			if expr[i+1] == 'Z' {
				b.WriteString(`\z`)
			} else {
				b.WriteByte(c)
				b.WriteByte(expr[i+1])
			}
			i++
		case strings.HasPrefix(expr[i:], "(?P<"):
			b.WriteString("(?<")
			i += len("(?P<") - 1
		case strings.HasPrefix(expr[i:], "(?P="):
			end := strings.IndexByte(expr[i:], ')')
			if end < 0 {
				b.WriteString(expr[i:])
				return b.String()
			}
			b.WriteString(`\k<` + expr[i+len("(?P="):i+end] + ">")
			i += end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
