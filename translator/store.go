package translator

import (
	"context"
	"encoding/gob"
	"io"

	"github.com/leapstack-labs/id-translation/format"
	"github.com/leapstack-labs/id-translation/translation"
)

// Store serializes the Translator's translations to w: the cached offline
// snapshot if already offline, or a fresh fetch-everything snapshot
// otherwise. Restore rebuilds an offline Translator from the result.
// Grounded on Translator's pickle-based persistence in the original
// implementation, adapted to encoding/gob since this port has no pickle
// equivalent and no pack dependency targets schema-free Go value
// persistence (yaml/mapstructure both target already-typed structs, not
// arbitrary id/string record graphs).
func (t *Translator) Store(ctx context.Context, w io.Writer) error {
	tmap, err := t.fetchAll(ctx)
	if err != nil {
		return err
	}
	return gob.NewEncoder(w).Encode(tmap.Snapshot())
}

// Restore builds an offline Translator from a snapshot produced by Store.
func Restore(r io.Reader, fmtSpec *format.Format) (*Translator, error) {
	var snap map[string]translation.SourceSnapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}
	tmap, err := translation.FromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return NewOffline(tmap, fmtSpec), nil
}
