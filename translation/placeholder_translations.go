// Package translation turns fetched placeholder records into translated
// strings: one MagicDict per source, built by applying a format.Format to
// each record, then merged into a single directional TranslationMap.
// Grounded on offline/_translation_map.py, offline/_format_applier.py and
// offline/_magic_dict.py in the original implementation.
package translation

import "github.com/leapstack-labs/id-translation/idtype"

// PlaceholderTranslations is the raw result of fetching one source: a
// column name list plus the rows a fetcher returned for it, with one
// column singled out as the identifier column.
type PlaceholderTranslations struct {
	Source        string
	Placeholders  []string
	IDPlaceholder string
	Records       [][]idtype.Value
}

// IDColumnIndex returns the index of IDPlaceholder within Placeholders, or
// -1 if it is not present.
func (p PlaceholderTranslations) IDColumnIndex() int {
	for i, name := range p.Placeholders {
		if name == p.IDPlaceholder {
			return i
		}
	}
	return -1
}

// Len returns the number of records.
func (p PlaceholderTranslations) Len() int { return len(p.Records) }

// AvailableSet returns the placeholder names as a set, for use with
// format.Format.Compile.
func (p PlaceholderTranslations) AvailableSet() map[string]struct{} {
	out := make(map[string]struct{}, len(p.Placeholders))
	for _, name := range p.Placeholders {
		out[name] = struct{}{}
	}
	return out
}

// RecordValues renders every column of record row to its string form,
// keyed by placeholder name.
func (p PlaceholderTranslations) RecordValues(row int) map[string]string {
	out := make(map[string]string, len(p.Placeholders))
	for i, name := range p.Placeholders {
		out[name] = p.Records[row][i].String()
	}
	return out
}

// Identifier converts the id column of record row to an idtype.Identifier,
// canonicalizing UUID-shaped strings.
func (p PlaceholderTranslations) Identifier(row int, idCol int) idtype.Identifier {
	v := p.Records[row][idCol]
	if v.Kind() == idtype.ValueInt64 {
		return idtype.Int64(v.Raw().(int64))
	}
	return idtype.String(v.String()).Canonical()
}
