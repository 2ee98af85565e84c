// Package format implements the placeholder format-string mini-language
// used to render a translated identifier's record into a single string:
// `{name[.attr][!conv][:spec]}` placeholders plus `[...]` optional blocks
// that drop out entirely when one of their placeholders has no value.
// Grounded on offline/parse_format_string.py and offline/_format.py in the
// original implementation.
package format

import "strings"

// Format is a parsed format string, ready to be compiled against the set
// of placeholder names a given source actually offers.
type Format struct {
	raw      string
	elements []Element
}

// Parse parses fmtStr into a Format. It returns a *BadDelimiterError if
// optional-block brackets are unbalanced or nested, or a *FormatSpecError
// if a placeholder segment cannot be parsed.
func Parse(fmtStr string) (*Format, error) {
	elements, err := getElements(fmtStr)
	if err != nil {
		return nil, err
	}
	return &Format{raw: fmtStr, elements: elements}, nil
}

// String returns the original, unparsed format string.
func (f *Format) String() string { return f.raw }

// Elements returns a copy of the parsed elements, in source order.
func (f *Format) Elements() []Element {
	return append([]Element(nil), f.elements...)
}

// Placeholders returns every placeholder name referenced anywhere in the
// format, in first-use order.
func (f *Format) Placeholders() []string {
	return collectPlaceholders(f.elements, func(Element) bool { return true })
}

// RequiredPlaceholders returns placeholder names that appear in a required
// (non-optional) element, and so must be present for Compile to succeed.
func (f *Format) RequiredPlaceholders() []string {
	return collectPlaceholders(f.elements, func(el Element) bool { return el.Required })
}

// OptionalPlaceholders returns placeholder names that appear only inside
// optional blocks.
func (f *Format) OptionalPlaceholders() []string {
	required := make(map[string]struct{})
	for _, n := range f.RequiredPlaceholders() {
		required[n] = struct{}{}
	}
	return collectPlaceholders(f.elements, func(el Element) bool {
		if el.Required {
			return false
		}
		return true
	}, required)
}

func collectPlaceholders(elements []Element, include func(Element) bool, exclude ...map[string]struct{}) []string {
	seen := map[string]struct{}{}
	for _, ex := range exclude {
		for k := range ex {
			seen[k] = struct{}{}
		}
	}
	var out []string
	for _, el := range elements {
		if !include(el) {
			continue
		}
		for _, p := range el.Placeholders {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// Partial substitutes the given placeholder names with fixed literal text,
// rendered through their original `!conv`/`:spec` rules, and returns a new
// Format with those placeholders removed. An optional block left with no
// remaining placeholders is promoted to required literal text, matching the
// promotion rule applied at parse time. Grounded on
// offline/_format.Format.partial in the original implementation.
func (f *Format) Partial(defaults map[string]string) *Format {
	newElements := make([]Element, len(f.elements))
	var raw strings.Builder
	for i, el := range f.elements {
		ne := partialElement(el, defaults)
		newElements[i] = ne
		if el.Required {
			raw.WriteString(ne.Raw)
		} else {
			raw.WriteByte('[')
			raw.WriteString(ne.Raw)
			raw.WriteByte(']')
		}
	}
	return &Format{raw: raw.String(), elements: newElements}
}

func partialElement(el Element, defaults map[string]string) Element {
	var newSegs []segment
	var placeholders []string
	for _, seg := range el.segments {
		if seg.isPlaceholder {
			if val, ok := defaults[seg.name]; ok {
				newSegs = append(newSegs, segment{literal: applySpec(applyConv(val, seg.conv), seg.spec)})
				continue
			}
			newSegs = append(newSegs, seg)
			placeholders = append(placeholders, seg.name)
		} else {
			newSegs = append(newSegs, seg)
		}
	}
	merged := mergeLiterals(newSegs)
	return Element{
		Raw:          rebuildRaw(merged),
		Placeholders: placeholders,
		Required:     el.Required || len(placeholders) == 0,
		segments:     merged,
	}
}

func mergeLiterals(segs []segment) []segment {
	var out []segment
	for _, s := range segs {
		if !s.isPlaceholder && len(out) > 0 && !out[len(out)-1].isPlaceholder {
			out[len(out)-1].literal += s.literal
			continue
		}
		out = append(out, s)
	}
	return out
}

func rebuildRaw(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.isPlaceholder {
			b.WriteByte('{')
			b.WriteString(s.name)
			if s.conv != "" {
				b.WriteByte('!')
				b.WriteString(s.conv)
			}
			if s.spec != "" {
				b.WriteByte(':')
				b.WriteString(s.spec)
			}
			b.WriteByte('}')
			continue
		}
		lit := strings.ReplaceAll(s.literal, "{", "{{")
		lit = strings.ReplaceAll(lit, "}", "}}")
		b.WriteString(lit)
	}
	return b.String()
}

// Compiled is a Format that has been resolved against a concrete set of
// available placeholder names: every optional block whose placeholders
// aren't all available has been dropped.
type Compiled struct {
	elements []Element
}

// Compile resolves f against the given available placeholder names. It
// fails with a *KeyError if a required placeholder is not available.
func (f *Format) Compile(available map[string]struct{}) (*Compiled, error) {
	var chosen []Element
	var missing []string
	for _, el := range f.elements {
		if el.Required {
			for _, p := range el.Placeholders {
				if _, ok := available[p]; !ok {
					missing = append(missing, p)
				}
			}
			chosen = append(chosen, el)
			continue
		}
		allAvailable := true
		for _, p := range el.Placeholders {
			if _, ok := available[p]; !ok {
				allAvailable = false
				break
			}
		}
		if allAvailable {
			chosen = append(chosen, el)
		}
	}
	if len(missing) > 0 {
		have := make([]string, 0, len(available))
		for k := range available {
			have = append(have, k)
		}
		return nil, &KeyError{Missing: dedupStrings(missing), Have: have}
	}
	return &Compiled{elements: chosen}, nil
}

// Render renders one record, given its placeholder values keyed by name.
// Placeholders absent from values render as the empty string.
func (c *Compiled) Render(values map[string]string) string {
	var b strings.Builder
	for _, el := range c.elements {
		for _, seg := range el.segments {
			if !seg.isPlaceholder {
				b.WriteString(seg.literal)
				continue
			}
			b.WriteString(applySpec(applyConv(values[seg.name], seg.conv), seg.spec))
		}
	}
	return b.String()
}

func dedupStrings(in []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
