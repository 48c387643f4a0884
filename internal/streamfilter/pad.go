package streamfilter

import "fmt"

// Unpad returns a Filter that removes a fixed pad string injected every n
// bytes of payload: reading n bytes of real data, then skipping and
// discarding len(pad) bytes, repeating until input is exhausted. A final
// partial group (fewer than n payload bytes before EOF) is passed through
// unchanged, with no pad expected after it.
func Unpad(n int, pad []byte) Filter {
	return newBufferedFilter(func(in []byte) ([]byte, error) {
		return unpadBytes(in, n, len(pad))
	})
}

func unpadBytes(in []byte, n, padLen int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: unpad block size must be positive", ErrFilter)
	}
	out := make([]byte, 0, len(in))
	i := 0
	for i < len(in) {
		chunk := n
		if rem := len(in) - i; rem < chunk {
			chunk = rem
		}
		out = append(out, in[i:i+chunk]...)
		i += chunk
		if chunk == n {
			if i+padLen > len(in) {
				return nil, fmt.Errorf("%w: unpad expected %d pad bytes at offset %d", ErrFilter, padLen, i)
			}
			i += padLen
		}
	}
	return out, nil
}

// Pad returns a Filter that inserts pad after every full n-byte block of
// payload (a trailing partial block gets no pad), the inverse of Unpad.
func Pad(n int, pad []byte) Filter {
	return newBufferedFilter(func(in []byte) ([]byte, error) {
		return padBytes(in, n, pad)
	})
}

func padBytes(in []byte, n int, pad []byte) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: pad block size must be positive", ErrFilter)
	}
	out := make([]byte, 0, len(in)+len(in)/n*len(pad)+len(pad))
	i := 0
	for i < len(in) {
		chunk := n
		if rem := len(in) - i; rem < chunk {
			chunk = rem
		}
		out = append(out, in[i:i+chunk]...)
		i += chunk
		if chunk == n {
			out = append(out, pad...)
		}
	}
	return out, nil
}
