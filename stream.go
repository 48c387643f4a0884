package gamegraphics

import (
	"errors"
	"io"
	"os"
)

// SeekOrigin mirrors io.Seeker's whence values for Stream.Seek.
type SeekOrigin int

const (
	SeekStart   SeekOrigin = iota // from the beginning of the stream
	SeekCurrent                   // from the current cursor position
	SeekEnd                       // from the end of the stream
)

// Stream is a random-access byte store: the "byte stream" layer every
// codec and container is built on. Implementations: MemoryStream,
// FileStream, SubStream.
type Stream interface {
	io.Reader
	io.Writer

	// Size returns the stream's current length in bytes.
	Size() (int64, error)

	// Seek moves the cursor and returns its new absolute position.
	Seek(offset int64, origin SeekOrigin) (int64, error)

	// Truncate sets the stream's length, discarding or zero-extending.
	Truncate(length int64) error

	// Insert opens a gap of length bytes at pos, shifting existing
	// content at and beyond pos to the right.
	Insert(pos int64, length int64) error

	// Remove closes a gap of length bytes at pos, shifting existing
	// content beyond pos+length to the left.
	Remove(pos int64, length int64) error

	// Flush persists pending writes to the backing store.
	Flush() error
}

// MemoryStream is an in-memory Stream backed by a growable byte slice.
type MemoryStream struct {
	buf    []byte
	cursor int64
}

// NewMemoryStream wraps init as the stream's initial content; init is
// copied, the returned stream does not alias the caller's slice.
func NewMemoryStream(init []byte) *MemoryStream {
	buf := make([]byte, len(init))
	copy(buf, init)
	return &MemoryStream{buf: buf}
}

func (m *MemoryStream) Size() (int64, error) { return int64(len(m.buf)), nil }

func (m *MemoryStream) Seek(offset int64, origin SeekOrigin) (int64, error) {
	var base int64
	switch origin {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = m.cursor
	case SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, NewError(KindIO, "memorystream", errUnknownOrigin)
	}
	pos := base + offset
	if pos < 0 {
		return 0, NewError(KindIO, "memorystream", errNegativeSeek)
	}
	m.cursor = pos
	return pos, nil
}

func (m *MemoryStream) Read(p []byte) (int, error) {
	if m.cursor >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.cursor:])
	m.cursor += int64(n)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *MemoryStream) Write(p []byte) (int, error) {
	end := m.cursor + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.cursor:end], p)
	m.cursor = end
	return n, nil
}

func (m *MemoryStream) Truncate(length int64) error {
	if length < 0 {
		return NewError(KindIO, "memorystream", errNegativeSeek)
	}
	if length <= int64(len(m.buf)) {
		m.buf = m.buf[:length]
		return nil
	}
	grown := make([]byte, length)
	copy(grown, m.buf)
	m.buf = grown
	return nil
}

func (m *MemoryStream) Insert(pos, length int64) error {
	if pos < 0 || length < 0 || pos > int64(len(m.buf)) {
		return NewError(KindIO, "memorystream", errNegativeSeek)
	}
	grown := make([]byte, int64(len(m.buf))+length)
	copy(grown, m.buf[:pos])
	copy(grown[pos+length:], m.buf[pos:])
	m.buf = grown
	return nil
}

func (m *MemoryStream) Remove(pos, length int64) error {
	if pos < 0 || length < 0 || pos+length > int64(len(m.buf)) {
		return NewError(KindIncompleteRead, "memorystream", nil)
	}
	m.buf = append(m.buf[:pos], m.buf[pos+length:]...)
	return nil
}

func (m *MemoryStream) Flush() error { return nil }

// Bytes returns the stream's current content. The slice aliases the
// stream's internal buffer and must not be mutated by the caller.
func (m *MemoryStream) Bytes() []byte { return m.buf }

// FileStream is a Stream backed by an *os.File.
type FileStream struct {
	f *os.File
}

// NewFileStream wraps an already-opened file.
func NewFileStream(f *os.File) *FileStream {
	return &FileStream{f: f}
}

// OpenFileStream opens path with flag/perm, converting OS errors to
// open_error per the byte-stream contract.
func OpenFileStream(path string, flag int, perm os.FileMode) (*FileStream, error) {
	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, NewError(KindOpen, "filestream", err)
	}
	return &FileStream{f: f}, nil
}

func (fs *FileStream) Size() (int64, error) {
	info, err := fs.f.Stat()
	if err != nil {
		return 0, NewError(KindIO, "filestream", err)
	}
	return info.Size(), nil
}

func (fs *FileStream) Seek(offset int64, origin SeekOrigin) (int64, error) {
	var whence int
	switch origin {
	case SeekStart:
		whence = io.SeekStart
	case SeekCurrent:
		whence = io.SeekCurrent
	case SeekEnd:
		whence = io.SeekEnd
	default:
		return 0, NewError(KindIO, "filestream", errUnknownOrigin)
	}
	pos, err := fs.f.Seek(offset, whence)
	if err != nil {
		return 0, NewError(KindIO, "filestream", err)
	}
	return pos, nil
}

func (fs *FileStream) Read(p []byte) (int, error) {
	n, err := fs.f.Read(p)
	if err != nil && err != io.EOF {
		return n, NewError(KindIO, "filestream", err)
	}
	return n, err
}

func (fs *FileStream) Write(p []byte) (int, error) {
	n, err := fs.f.Write(p)
	if err != nil {
		return n, NewError(KindIO, "filestream", err)
	}
	return n, nil
}

func (fs *FileStream) Truncate(length int64) error {
	if err := fs.f.Truncate(length); err != nil {
		return NewError(KindIO, "filestream", err)
	}
	return nil
}

// Insert grows the file by length bytes, shifting bytes at pos onward to
// the right. Implemented by read/write in reverse chunk order since the
// OS provides no native insert primitive.
func (fs *FileStream) Insert(pos, length int64) error {
	size, err := fs.Size()
	if err != nil {
		return err
	}
	if err := fs.Truncate(size + length); err != nil {
		return err
	}
	const chunk = 64 * 1024
	buf := make([]byte, chunk)
	for src := size - chunk; ; src -= chunk {
		start := src
		if start < pos {
			start = pos
		}
		n := src + chunk - start
		if n <= 0 {
			break
		}
		if _, err := fs.f.ReadAt(buf[:n], start); err != nil && err != io.EOF {
			return NewError(KindIO, "filestream", err)
		}
		if _, err := fs.f.WriteAt(buf[:n], start+length); err != nil {
			return NewError(KindIO, "filestream", err)
		}
		if start == pos {
			break
		}
	}
	return nil
}

// Remove shrinks the file by length bytes, shifting bytes beyond
// pos+length to the left.
func (fs *FileStream) Remove(pos, length int64) error {
	size, err := fs.Size()
	if err != nil {
		return err
	}
	if pos+length > size {
		return NewError(KindIncompleteRead, "filestream", nil)
	}
	const chunk = 64 * 1024
	buf := make([]byte, chunk)
	for src := pos + length; src < size; src += chunk {
		n := size - src
		if n > chunk {
			n = chunk
		}
		if _, err := fs.f.ReadAt(buf[:n], src); err != nil && err != io.EOF {
			return NewError(KindIO, "filestream", err)
		}
		if _, err := fs.f.WriteAt(buf[:n], src-length); err != nil {
			return NewError(KindIO, "filestream", err)
		}
	}
	return fs.Truncate(size - length)
}

func (fs *FileStream) Flush() error {
	if err := fs.f.Sync(); err != nil {
		return NewError(KindIO, "filestream", err)
	}
	return nil
}

// Close releases the underlying file descriptor.
func (fs *FileStream) Close() error { return fs.f.Close() }

// ResizeCallback is invoked after a SubStream has grown or shrunk its
// window in the parent, with the sub-stream's new length; it only updates
// the owner's bookkeeping and does not touch the parent itself.
type ResizeCallback func(newLength int64) error

// SubStream presents a [offset, offset+length) window on a parent
// Stream. It performs its own physical growth against the parent
// (Insert, or widening at the tail for Write/Truncate); onResize is then
// notified of the new total length purely for the owning container's
// FAT bookkeeping (e.g. shifting sibling entries), not further mutation.
type SubStream struct {
	parent   Stream
	offset   int64
	length   int64
	cursor   int64
	onResize ResizeCallback
}

// NewSubStream scopes a window on parent; onResize may be nil, in which
// case growth past the window fails with a capability_violation.
func NewSubStream(parent Stream, offset, length int64, onResize ResizeCallback) *SubStream {
	return &SubStream{parent: parent, offset: offset, length: length, onResize: onResize}
}

func (s *SubStream) Size() (int64, error) { return s.length, nil }

func (s *SubStream) Seek(offset int64, origin SeekOrigin) (int64, error) {
	var base int64
	switch origin {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = s.cursor
	case SeekEnd:
		base = s.length
	default:
		return 0, NewError(KindIO, "substream", errUnknownOrigin)
	}
	pos := base + offset
	if pos < 0 {
		return 0, NewError(KindIO, "substream", errNegativeSeek)
	}
	s.cursor = pos
	return pos, nil
}

func (s *SubStream) Read(p []byte) (int, error) {
	if s.cursor >= s.length {
		return 0, io.EOF
	}
	want := int64(len(p))
	if s.cursor+want > s.length {
		want = s.length - s.cursor
	}
	if _, err := s.parent.Seek(s.offset+s.cursor, SeekStart); err != nil {
		return 0, err
	}
	n, err := s.parent.Read(p[:want])
	s.cursor += int64(n)
	if err == nil && int64(n) < int64(len(p)) {
		err = io.EOF
	}
	return n, err
}

func (s *SubStream) Write(p []byte) (int, error) {
	end := s.cursor + int64(len(p))
	if end > s.length {
		if err := s.growAt(s.length, end-s.length, end); err != nil {
			return 0, err
		}
	}
	if _, err := s.parent.Seek(s.offset+s.cursor, SeekStart); err != nil {
		return 0, err
	}
	n, err := s.parent.Write(p)
	s.cursor += int64(n)
	return n, err
}

// growAt opens a gap of delta bytes in the parent stream at this
// window's offset+pos, then notifies onResize (which updates the owning
// container's FAT bookkeeping and shifts sibling entries — it performs
// no further stream mutation) before extending this window to newLength.
func (s *SubStream) growAt(pos, delta, newLength int64) error {
	if s.onResize == nil {
		return NewError(KindCapabilityViolation, "substream", nil)
	}
	if err := s.parent.Insert(s.offset+pos, delta); err != nil {
		return err
	}
	if err := s.onResize(newLength); err != nil {
		return err
	}
	s.length = newLength
	return nil
}

func (s *SubStream) Truncate(length int64) error {
	if length > s.length {
		return s.growAt(s.length, length-s.length, length)
	}
	s.length = length
	if s.cursor > length {
		s.cursor = length
	}
	return nil
}

// Insert opens a gap of length bytes at pos within this window, then
// reports the new total length to onResize for bookkeeping.
func (s *SubStream) Insert(pos, length int64) error {
	if err := s.parent.Insert(s.offset+pos, length); err != nil {
		return err
	}
	newLength := s.length + length
	if s.onResize != nil {
		if err := s.onResize(newLength); err != nil {
			return err
		}
	}
	s.length = newLength
	return nil
}

func (s *SubStream) Remove(pos, length int64) error {
	if err := s.parent.Remove(s.offset+pos, length); err != nil {
		return err
	}
	newLength := s.length - length
	if s.onResize != nil {
		if err := s.onResize(newLength); err != nil {
			return err
		}
	}
	s.length = newLength
	return nil
}

func (s *SubStream) Flush() error { return s.parent.Flush() }

var (
	errUnknownOrigin = errors.New("unknown seek origin")
	errNegativeSeek  = errors.New("seek to negative position")
)
