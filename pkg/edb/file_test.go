package edb

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestFile_ResolveRefPointer(t *testing.T) {
	b := newBuilder(252, PlatformPC, binary.LittleEndian)
	b.setList(ListRefPointers, 2)
	target := b.offset() + 8 // the word right after the table
	b.u32(target)
	b.u32(0xFFFFFF00) // beyond file size
	b.u32(0x12345678)

	f, err := Parse(b.build())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if f.RefPointerCount() != 2 {
		t.Fatalf("refpointer count = %d, expected 2", f.RefPointerCount())
	}

	addr, err := f.Resolve(0)
	if err != nil {
		t.Fatalf("Resolve(0) failed: %v", err)
	}
	if addr != target {
		t.Errorf("Resolve(0) = 0x%x, expected 0x%x", addr, target)
	}

	if _, err := f.Resolve(1); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("refpointer beyond file size: expected ErrInvalidReference, got %v", err)
	}
	if _, err := f.Resolve(2); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("index out of table: expected ErrInvalidReference, got %v", err)
	}
}

func TestFile_BrokenRefPointerTableIsFatal(t *testing.T) {
	b := newBuilder(252, PlatformPC, binary.LittleEndian)
	b.dir[ListRefPointers] = ArrayPointer{Count: 1000, Address: b.offset()}

	if _, err := Parse(b.build()); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

func TestFile_List(t *testing.T) {
	b := newBuilder(252, PlatformPC, binary.LittleEndian)
	b.setList(ListTextures, 2)
	b.entry(0x0100, 0x40, 0)
	b.entry(0x0200, 0x50, 1)

	f, err := Parse(b.build())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	entries, err := f.List(ListTextures)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Hashcode != 0x0100 || entries[0].Address != 0x40 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Flags != 1 {
		t.Errorf("entry 1 flags = %d, expected 1", entries[1].Flags)
	}
}

func TestFile_ListAbsentKind(t *testing.T) {
	// v213 directory has no fonts list.
	b := newBuilder(213, PlatformPC, binary.LittleEndian)

	f, err := Parse(b.build())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	entries, err := f.List(ListFonts)
	if err != nil {
		t.Fatalf("List of absent kind should not fail: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries, got %d", len(entries))
	}
}

func TestFile_CursorsAreIndependent(t *testing.T) {
	b := newBuilder(252, PlatformPC, binary.LittleEndian)
	f, err := Parse(b.build())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	c1, c2 := f.Cursor(), f.Cursor()
	if err := c1.Seek(10); err != nil {
		t.Fatal(err)
	}
	if c2.Pos() != 0 {
		t.Errorf("second cursor moved with first: pos %d", c2.Pos())
	}
}
