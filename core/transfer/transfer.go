// Package transfer applies the metadata of one document onto another.
//
// The engine is format-agnostic: it routes the six well-known descriptive
// fields and the two reserved date fields to dedicated setters on the target
// document, and every other key through the generic key/value path. Keys
// present in the target but absent from the source are left untouched.
package transfer

import (
	"context"
	"time"

	"github.com/mocreac/metadata-copy/core"
)

// setters routes well-known text fields to their dedicated document slot.
// Any key absent from this table (and not a reserved date key) takes the
// generic SetField path.
var setters = map[string]func(core.Document, string) error{
	core.KeyTitle:    core.Document.SetTitle,
	core.KeyAuthor:   core.Document.SetAuthor,
	core.KeySubject:  core.Document.SetSubject,
	core.KeyKeywords: core.Document.SetKeywords,
	core.KeyCreator:  core.Document.SetCreator,
	core.KeyProducer: core.Document.SetProducer,
}

var dateSetters = map[string]func(core.Document, time.Time) error{
	core.KeyCreationDate: core.Document.SetCreationDate,
	core.KeyModDate:      core.Document.SetModificationDate,
}

// Apply writes every field of source into target, in source insertion
// order, then re-reads the target's full metadata dictionary and serializes
// the mutated document. The returned dictionary is the target's actual
// post-transfer state, not an echo of source: pre-existing target fields
// survive and the codec may normalize values during the round trip.
//
// An unparsable reserved date value aborts the whole transfer with
// *core.InvalidDateError before any field is written, so a failed transfer
// leaves the target document untouched and produces no bytes. Codec
// failures are wrapped as *core.CodecError and propagated; there are no
// retries.
//
// An empty source is a no-op that still reports the target's current
// metadata and serialized bytes.
func Apply(ctx context.Context, source *core.Dictionary, target core.Document) (*core.Dictionary, []byte, error) {
	if source == nil {
		source = core.NewDictionary()
	}

	// Validate every reserved date value up front. Failing after some
	// fields were already written would leave the target half-updated.
	dates := make(map[string]time.Time)
	for _, f := range source.Fields() {
		if !core.IsDateKey(f.Key) {
			continue
		}
		t, ok := core.ParseDate(f.Value)
		if !ok {
			return nil, nil, &core.InvalidDateError{Key: f.Key, Value: f.Value}
		}
		dates[f.Key] = t
	}

	for _, f := range source.Fields() {
		var err error
		switch {
		case core.IsDateKey(f.Key):
			err = dateSetters[f.Key](target, dates[f.Key])
		default:
			if set, ok := setters[f.Key]; ok {
				err = set(target, f.Value)
			} else {
				err = target.SetField(f.Key, f.Value)
			}
		}
		if err != nil {
			return nil, nil, &core.CodecError{Op: "set " + f.Key, Err: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	md, err := target.Metadata()
	if err != nil {
		return nil, nil, &core.CodecError{Op: "read metadata", Err: err}
	}
	data, err := target.Serialize()
	if err != nil {
		return nil, nil, &core.CodecError{Op: "serialize", Err: err}
	}
	return md, data, nil
}
