package mux

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// defaultVarPattern matches one non-empty path segment.
const defaultVarPattern = "[^/]+"

// routePattern stores a compiled route template and metadata about its
// placeholders.
type routePattern struct {
	// template is the original template string.
	template string
	// regexp is the compiled, fully anchored regular expression.
	regexp *regexp.Regexp
	// varsN are the placeholder names in declaration order.
	varsN []string
	// varsI are the submatch indexes of each placeholder in regexp.
	varsI []int
	// segments is the number of "/" separators a matching path must have.
	segments int
}

// newRoutePattern parses a route template such as "/book/{id:[0-9]+}" and
// returns its compiled form. An empty template is treated as "/".
func newRoutePattern(tpl string) (*routePattern, error) {
	if tpl == "" {
		tpl = "/"
	}
	if tpl[0] != '/' {
		return nil, fmt.Errorf("%w: %q must start with \"/\"", ErrInvalidPattern, tpl)
	}

	idxs, err := braceIndices(tpl)
	if err != nil {
		return nil, err
	}

	var (
		pattern  bytes.Buffer
		skeleton strings.Builder
		varsN    []string
		groups   []string
		end      int
	)

	pattern.WriteByte('^')

	for i := 0; i < len(idxs); i += 2 {
		raw := tpl[end:idxs[i]]
		end = idxs[i+1]

		name, patt, custom := strings.Cut(tpl[idxs[i]+1:end-1], ":")
		if name == "" {
			return nil, fmt.Errorf("%w: missing name in %q from %q", ErrInvalidPattern, tpl[idxs[i]:end], tpl)
		}
		if custom {
			if patt == "" {
				return nil, fmt.Errorf("%w: empty pattern for variable %q in %q", ErrInvalidPattern, name, tpl)
			}
			patt = expandMacro(patt)
			if _, err := compileRegexp("^(?:" + patt + ")$"); err != nil {
				return nil, fmt.Errorf("%w: invalid pattern %q in variable %q: %v", ErrInvalidPattern, patt, name, err)
			}
		} else {
			patt = defaultVarPattern
		}

		// Each placeholder gets its own named group so that capturing
		// groups inside a custom pattern cannot shift the indexes.
		group := "v" + strconv.Itoa(len(varsN))
		fmt.Fprintf(&pattern, "%s(?P<%s>%s)", regexp.QuoteMeta(raw), group, patt)
		skeleton.WriteString(raw)

		varsN = append(varsN, name)
		groups = append(groups, group)
	}

	raw := tpl[end:]
	pattern.WriteString(regexp.QuoteMeta(raw))
	pattern.WriteByte('$')
	skeleton.WriteString(raw)

	reg, err := compileRegexp(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, tpl, err)
	}

	varsI := make([]int, len(groups))
	for i, g := range groups {
		varsI[i] = reg.SubexpIndex(g)
	}

	return &routePattern{
		template: tpl,
		regexp:   reg,
		varsN:    varsN,
		varsI:    varsI,
		segments: strings.Count(skeleton.String(), "/"),
	}, nil
}

// match reports whether path matches the template exactly.
func (p *routePattern) match(path string) bool {
	if strings.Count(path, "/") != p.segments {
		return false
	}
	return p.regexp.MatchString(path)
}

// extract returns the placeholder values captured from path.
func (p *routePattern) extract(path string) (Params, bool) {
	if strings.Count(path, "/") != p.segments {
		return nil, false
	}
	matches := p.regexp.FindStringSubmatch(path)
	if matches == nil {
		return nil, false
	}
	params := make(Params, 0, len(p.varsN))
	for i, name := range p.varsN {
		params = params.set(name, matches[p.varsI[i]])
	}
	return params, true
}

// braceIndices returns the start and end+1 indices of each top-level
// {...} pair in s. Returns an error if braces are unbalanced.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, i+1)
			} else if level < 0 {
				return nil, fmt.Errorf("%w: unbalanced braces in %q", ErrInvalidPattern, s)
			}
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("%w: unbalanced braces in %q", ErrInvalidPattern, s)
	}
	return idxs, nil
}
