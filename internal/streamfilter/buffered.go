package streamfilter

// bufferedFilter is a Filter base that accumulates the whole input before
// processing it in one shot, then drains the result across however many
// Transform calls the caller needs. This is explicitly allowed by the
// filter contract ("the contract permits the filter to buffer arbitrarily
// between calls") and is the simplest correct strategy for filters whose
// encoding depends on lookahead across the whole stream (Vinyl's
// dictionary) or on knowing the declared total length up front (the
// Captain Comic plane-length header). Image and tile payloads handled by
// this package are bounded in size (single images/tiles, not unbounded
// streams), so whole-buffer processing is also the practical choice, not
// just a permitted one.
type bufferedFilter struct {
	process func(in []byte) ([]byte, error)

	in       []byte
	out      []byte
	outPos   int
	done     bool
	inputLen int64
}

func newBufferedFilter(process func([]byte) ([]byte, error)) *bufferedFilter {
	return &bufferedFilter{process: process}
}

func (f *bufferedFilter) Reset(inputLength int64) error {
	f.in = f.in[:0]
	f.out = nil
	f.outPos = 0
	f.done = false
	f.inputLen = inputLength
	return nil
}

func (f *bufferedFilter) Transform(out, in []byte) (consumed, produced int, err error) {
	if len(in) > 0 {
		f.in = append(f.in, in...)
		return len(in), 0, nil
	}
	if !f.done {
		result, err := f.process(f.in)
		if err != nil {
			return 0, 0, err
		}
		f.out = result
		f.done = true
	}
	n := copy(out, f.out[f.outPos:])
	f.outPos += n
	return 0, n, nil
}
