package format

import "strings"

// segment is one literal run or placeholder slot inside an Element, in
// source order.
type segment struct {
	literal       string
	isPlaceholder bool
	name          string
	conv          string
	spec          string
}

// Element is one block of a parsed Format: either required literal text
// with zero or more placeholders, or an optional `[...]` block with its own
// placeholders. Grounded on
// offline/parse_format_string.Element in the original implementation.
type Element struct {
	// Raw is the element's literal text, with "[[" / "]]" already
	// unescaped to "[" / "]".
	Raw string
	// Placeholders are the placeholder names appearing in Raw, in order.
	Placeholders []string
	// Required is false only for an optional block that still contains at
	// least one placeholder.
	Required bool

	segments []segment
}

func makeElement(raw string, inOptionalBlock bool) (Element, error) {
	text := strings.ReplaceAll(strings.ReplaceAll(raw, "[[", "["), "]]", "]")
	segs, placeholders, err := parseSegments(text)
	if err != nil {
		return Element{}, err
	}
	return Element{
		Raw:          text,
		Placeholders: placeholders,
		Required:     !(len(placeholders) > 0 && inOptionalBlock),
		segments:     segs,
	}, nil
}

// parseSegments scans a block of text (already bracket-unescaped) for
// `{name[.attr][!conv][:spec]}` placeholders, analogous to Python's
// string.Formatter.parse used by parse_format_string.Element.parse_block.
// Attribute access ("."-suffixed names) is accepted but the attribute is
// dropped: every placeholder in this domain names a flat record column, so
// there is nothing to the right of the dot to resolve.
func parseSegments(block string) ([]segment, []string, error) {
	var segs []segment
	var placeholders []string
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segs = append(segs, segment{literal: literal.String()})
			literal.Reset()
		}
	}

	n := len(block)
	i := 0
	for i < n {
		c := block[i]
		switch c {
		case '{':
			if i+1 < n && block[i+1] == '{' {
				literal.WriteByte('{')
				i += 2
				continue
			}
			rest := block[i+1:]
			end := strings.IndexByte(rest, '}')
			if end == -1 {
				return nil, nil, &FormatSpecError{Segment: block[i:], Reason: "unterminated placeholder, missing '}'"}
			}
			raw := rest[:end]
			flush()
			name, conv, spec := parseFieldSpec(raw)
			segs = append(segs, segment{isPlaceholder: true, name: name, conv: conv, spec: spec})
			if name != "" {
				placeholders = append(placeholders, name)
			}
			i += 1 + end + 1
		case '}':
			if i+1 < n && block[i+1] == '}' {
				literal.WriteByte('}')
				i += 2
				continue
			}
			return nil, nil, &FormatSpecError{Segment: block[i:], Reason: "unmatched '}'"}
		default:
			literal.WriteByte(c)
			i++
		}
	}
	flush()
	return segs, placeholders, nil
}

// parseFieldSpec splits "name.attr!conv:spec" into its name, conversion and
// format-spec parts. Order is fixed by grammar: name, then "!conv", then
// ":spec" (which may itself contain further colons, so it is everything
// after the first one).
func parseFieldSpec(raw string) (name, conv, spec string) {
	rest := raw
	if idx := strings.IndexByte(rest, ':'); idx != -1 {
		spec = rest[idx+1:]
		rest = rest[:idx]
	}
	if idx := strings.IndexByte(rest, '!'); idx != -1 {
		conv = rest[idx+1:]
		rest = rest[:idx]
	}
	if idx := strings.IndexByte(rest, '.'); idx != -1 {
		rest = rest[:idx]
	}
	return rest, conv, spec
}

// getElements splits a full format string into top-level Elements, applying
// the run-length delimiter rule from spec.md §4.1: a delimiter character
// repeated k times contributes one literal for each pair, and if k is odd
// the last one opens/closes an optional block.
func getElements(fmtStr string) ([]Element, error) {
	runes := []rune(fmtStr)
	n := len(runes)
	if n == 0 {
		el, err := makeElement("", true)
		if err != nil {
			return nil, err
		}
		el.Required = true
		return []Element{el}, nil
	}

	sameCount := 1
	var elements []Element

	inOptionalBlock := runes[0] == '['
	openIdx := -1
	if inOptionalBlock {
		openIdx = 0
	}
	start := 0
	prevIdx := 0
	if inOptionalBlock {
		start = 1
		prevIdx = 1
	}

	for idx := start; idx < n; idx++ {
		ch := runes[idx]
		isDelim := ch == '[' || ch == ']'
		hasNext := idx+1 < n
		var nextCh rune
		if hasNext {
			nextCh = runes[idx+1]
		}

		if hasNext && nextCh == ch && isDelim {
			sameCount++
			continue
		}

		if sameCount%2 == 1 && isDelim {
			if ch == '[' {
				if openIdx != -1 {
					return nil, &BadDelimiterError{Format: fmtStr, OpenIdx: openIdx, Idx: idx}
				}
				openIdx = idx
			} else {
				if openIdx == -1 {
					return nil, &BadDelimiterError{Format: fmtStr, OpenIdx: openIdx, Idx: idx}
				}
				openIdx = -1
			}

			if prevIdx != idx {
				part := string(runes[prevIdx:idx])
				el, err := makeElement(part, inOptionalBlock)
				if err != nil {
					return nil, err
				}
				if inOptionalBlock && len(el.Placeholders) == 0 {
					el, err = makeElement("["+part+"]", true)
					if err != nil {
						return nil, err
					}
				}
				elements = append(elements, el)
			}
			inOptionalBlock = !inOptionalBlock
			prevIdx = idx + 1
		}
		sameCount = 1
	}

	if prevIdx != n {
		el, err := makeElement(string(runes[prevIdx:]), inOptionalBlock)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}

	if inOptionalBlock {
		return nil, &BadDelimiterError{Format: fmtStr, OpenIdx: openIdx, Idx: -1}
	}

	return elements, nil
}
