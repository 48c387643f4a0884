// Package streamfilter implements the pluggable byte-level stream
// transforms used by the image and tileset codecs: RLE expansion and
// compression (in the PCX and Captain Comic dialects), fixed-position
// padding insertion/removal, and the Vinyl lookup-code compressor.
//
// Each filter is modelled as an explicit Reset/Transform state machine per
// the restartable-filter contract: Reset prepares the filter for a new
// stream and Transform is called repeatedly, each time reporting how many
// bytes it actually consumed from the input and produced into the output.
// A filter may buffer arbitrarily between calls; the caller drives the
// pipeline by alternating input availability and output capacity until
// input is exhausted and all residual output has been drained.
package streamfilter

import "errors"

// ErrFilter is returned when a filter rejects its input as malformed.
var ErrFilter = errors.New("streamfilter: malformed input")

// Filter is a restartable byte-level stream transform.
type Filter interface {
	// Reset prepares the filter for a new stream. inputLength is the total
	// number of input bytes the caller intends to feed, or -1 if unknown.
	Reset(inputLength int64) error

	// Transform consumes bytes from in and produces bytes into out. It
	// returns how many bytes of in were consumed and how many bytes of out
	// were filled. Either count may be zero (e.g. when the filter needs
	// more input before it can produce more output, or more output space
	// before it can consume more input). A zero-length in signals that the
	// caller has no more input; the filter should then drain any buffered
	// output instead of treating the call as EOF-with-data.
	Transform(out, in []byte) (consumed, produced int, err error)
}

// RunAll drives f to completion over the whole of src and returns the full
// transformed output. It is a convenience for callers (principally codecs
// operating on single in-memory images or tiles) that don't need the
// incremental Transform protocol themselves.
func RunAll(f Filter, src []byte) ([]byte, error) {
	if err := f.Reset(int64(len(src))); err != nil {
		return nil, err
	}
	var out []byte
	buf := make([]byte, 4096)
	in := src
	for {
		c, p, err := f.Transform(buf, in)
		out = append(out, buf[:p]...)
		in = in[c:]
		if err != nil {
			return nil, err
		}
		if c == 0 && p == 0 {
			if len(in) == 0 {
				return out, nil
			}
			// No progress with input remaining: malformed or stuck filter.
			return nil, ErrFilter
		}
	}
}
