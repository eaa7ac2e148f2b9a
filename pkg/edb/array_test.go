package edb

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestReadArray_BoundsCheckedBeforeReads(t *testing.T) {
	c := NewCursor(make([]byte, 64), binary.LittleEndian)

	// Count*recordSize overflows the image; must fail before decoding.
	calls := 0
	_, err := ReadArray(c, ArrayPointer{Count: 0xFFFFFFFF, Address: 0}, 12,
		func(c *Cursor) (int, error) {
			calls++
			return 0, nil
		})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
	if calls != 0 {
		t.Errorf("decode ran %d times before bounds check", calls)
	}
}

func TestReadArray_DecodesEachRecord(t *testing.T) {
	data := make([]byte, 12)
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(data[i*4:], uint32(i+10))
	}
	c := NewCursor(data, binary.LittleEndian)

	got, err := ReadArray(c, ArrayPointer{Count: 3, Address: 0}, 4,
		func(c *Cursor) (uint32, error) { return c.U32() })
	if err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	for i, v := range got {
		if v != uint32(i+10) {
			t.Errorf("record %d = %d, expected %d", i, v, i+10)
		}
	}
}

func TestReadArray_EmptyArray(t *testing.T) {
	c := NewCursor(nil, binary.LittleEndian)

	got, err := ReadArray(c, ArrayPointer{}, 12, decodeRefPointer)
	if err != nil {
		t.Fatalf("empty array should decode: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestArrayEntrySize_VersionGate(t *testing.T) {
	if s := arrayEntrySize(240); s != 12 {
		t.Errorf("v240 entry size = %d, expected 12", s)
	}
	if s := arrayEntrySize(248); s != 16 {
		t.Errorf("v248 entry size = %d, expected 16", s)
	}
}

func TestDecodeArrayEntry_DataSizeGate(t *testing.T) {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[0:], 0xAAAA)
	binary.LittleEndian.PutUint32(data[4:], 0x100)
	binary.LittleEndian.PutUint32(data[8:], 0x1)
	binary.LittleEndian.PutUint32(data[12:], 0x40)

	c := NewCursor(data, binary.LittleEndian)
	e, err := decodeArrayEntry(240)(c)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if e.DataSize != 0 {
		t.Errorf("v240 entry should not read data size, got %d", e.DataSize)
	}

	c = NewCursor(data, binary.LittleEndian)
	e, err = decodeArrayEntry(248)(c)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if e.DataSize != 0x40 {
		t.Errorf("v248 data size = 0x%x, expected 0x40", e.DataSize)
	}
}
