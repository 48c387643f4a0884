package bitio

import (
	"bytes"
	"testing"
)

func TestWriterReaderRoundTripBigEndian(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, BigEndian)
	fields := []struct {
		v uint16
		n int
	}{
		{0x0F, 4},
		{0x3, 2},
		{0x1FF, 9},
		{1, 1},
	}
	for _, f := range fields {
		if err := w.WriteBits(f.v, f.n); err != nil {
			t.Fatalf("WriteBits(%x,%d): %v", f.v, f.n, err)
		}
	}
	if err := w.FlushByte(); err != nil {
		t.Fatalf("FlushByte: %v", err)
	}

	r := NewReader(bytes.NewReader(buf.Bytes()), BigEndian)
	for _, f := range fields {
		got, err := r.ReadBits(f.n)
		if err != nil {
			t.Fatalf("ReadBits(%d): %v", f.n, err)
		}
		if got != f.v {
			t.Errorf("ReadBits(%d) = %x, want %x", f.n, got, f.v)
		}
	}
}

func TestWriterReaderRoundTripLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, LittleEndian)
	fields := []struct {
		v uint16
		n int
	}{
		{0x0A, 4},
		{0x2, 2},
		{0x3FF, 10},
	}
	for _, f := range fields {
		if err := w.WriteBits(f.v, f.n); err != nil {
			t.Fatalf("WriteBits: %v", err)
		}
	}
	if err := w.FlushByte(); err != nil {
		t.Fatalf("FlushByte: %v", err)
	}

	r := NewReader(bytes.NewReader(buf.Bytes()), LittleEndian)
	for _, f := range fields {
		got, err := r.ReadBits(f.n)
		if err != nil {
			t.Fatalf("ReadBits(%d): %v", f.n, err)
		}
		if got != f.v {
			t.Errorf("ReadBits(%d) = %x, want %x", f.n, got, f.v)
		}
	}
}

func TestFlushByteDiscardsRemainder(t *testing.T) {
	// Byte 0b1010_0000 followed by 0b1111_1111.
	r := NewReader(bytes.NewReader([]byte{0xA0, 0xFF}), BigEndian)
	v, err := r.ReadBits(3)
	if err != nil || v != 0b101 {
		t.Fatalf("ReadBits(3) = %v, %v", v, err)
	}
	r.FlushByte()
	v, err = r.ReadBits(8)
	if err != nil || v != 0xFF {
		t.Fatalf("after FlushByte, ReadBits(8) = %x, %v", v, err)
	}
}

func TestInvalidFieldWidth(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, BigEndian)
	if err := w.WriteBits(0, 0); err != ErrFieldWidth {
		t.Errorf("WriteBits(0,0) error = %v, want ErrFieldWidth", err)
	}
	if err := w.WriteBits(0, 17); err != ErrFieldWidth {
		t.Errorf("WriteBits(0,17) error = %v, want ErrFieldWidth", err)
	}
}
