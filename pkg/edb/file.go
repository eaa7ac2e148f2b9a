package edb

import (
	"encoding/binary"
	"fmt"
	"os"
)

// File is an opened EDB database. It owns the byte image, the parsed
// header and the eagerly loaded reference-pointer table; everything else
// is decoded on demand.
type File struct {
	data        []byte
	order       binary.ByteOrder
	header      *Header
	refPointers []RefPointer
}

// Open reads and parses an EDB file from disk.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading EDB file: %w", err)
	}
	return Parse(data)
}

// Parse parses an EDB file from raw bytes. Header or directory failures
// are fatal: there is no partial header.
func Parse(data []byte) (*File, error) {
	order, err := DetectByteOrder(data)
	if err != nil {
		return nil, err
	}

	f := &File{data: data, order: order}
	c := f.Cursor()

	f.header, err = parseHeader(c)
	if err != nil {
		return nil, err
	}

	// The reference-pointer table is needed by nearly every consumer, so
	// it is the one array loaded up front.
	ptr := f.header.Directory[ListRefPointers]
	f.refPointers, err = ReadArray(c, ptr, refPointerSize, decodeRefPointer)
	if err != nil {
		return nil, fmt.Errorf("reading refpointer table: %w", err)
	}

	return f, nil
}

// Header returns the parsed header.
func (f *File) Header() *Header { return f.header }

// ByteOrder returns the byte order selected by the endianness marker.
func (f *File) ByteOrder() binary.ByteOrder { return f.order }

// Size returns the byte length of the file image.
func (f *File) Size() uint32 { return uint32(len(f.data)) }

// Cursor returns a fresh independent cursor over the file image. Each
// concurrent decode sequence must use its own cursor.
func (f *File) Cursor() *Cursor {
	return NewCursor(f.data, f.order)
}

// RefPointerCount returns the number of reference-pointer slots.
func (f *File) RefPointerCount() int { return len(f.refPointers) }

// Resolve turns a reference-pointer index into an absolute file offset.
func (f *File) Resolve(index uint32) (uint32, error) {
	if int64(index) >= int64(len(f.refPointers)) {
		return 0, fmt.Errorf("%w: refpointer index %d out of range (table has %d)",
			ErrInvalidReference, index, len(f.refPointers))
	}
	addr := f.refPointers[index].Address
	if int64(addr) >= int64(len(f.data)) {
		return 0, fmt.Errorf("%w: refpointer %d points to 0x%x beyond file size 0x%x",
			ErrInvalidReference, index, addr, len(f.data))
	}
	return addr, nil
}

// List reads the directory entry array for a kind. Kinds absent from this
// version's directory yield an empty list.
func (f *File) List(kind ListKind) ([]ArrayEntry, error) {
	ptr, ok := f.header.Directory[kind]
	if !ok {
		return nil, nil
	}
	v := f.header.Version
	return ReadArray(f.Cursor(), ptr, arrayEntrySize(v), decodeArrayEntry(v))
}
