package edb

import "fmt"

// ReadArray decodes ptr.Count consecutive fixed-size records. The full span
// ptr.Address + ptr.Count*recordSize is validated against the file size
// before any byte is read; decode is then called once per record with the
// cursor positioned at the record start.
func ReadArray[T any](c *Cursor, ptr ArrayPointer, recordSize uint32, decode func(*Cursor) (T, error)) ([]T, error) {
	end := uint64(ptr.Address) + uint64(ptr.Count)*uint64(recordSize)
	if end > uint64(c.Size()) {
		return nil, fmt.Errorf("%w: array of %d records (%d bytes each) at 0x%x exceeds file size 0x%x",
			ErrInvalidReference, ptr.Count, recordSize, ptr.Address, c.Size())
	}

	out := make([]T, 0, ptr.Count)
	for i := uint32(0); i < ptr.Count; i++ {
		if err := c.Seek(ptr.Address + i*recordSize); err != nil {
			return nil, err
		}
		rec, err := decode(c)
		if err != nil {
			return nil, fmt.Errorf("decoding record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ArrayEntry is the common record of the entity, texture, map, script and
// animation lists: it names an object by hashcode and points at its body.
type ArrayEntry struct {
	Hashcode uint32
	Address  uint32
	Flags    uint32
	DataSize uint32 // v248+
}

// arrayEntrySize returns the on-disk size of an ArrayEntry for a version.
func arrayEntrySize(v Version) uint32 {
	if v.AtLeast(248) {
		return 16
	}
	return 12
}

// decodeArrayEntry returns a decoder for ArrayEntry records of a version.
func decodeArrayEntry(v Version) func(*Cursor) (ArrayEntry, error) {
	return func(c *Cursor) (ArrayEntry, error) {
		var e ArrayEntry
		var err error
		if e.Hashcode, err = c.U32(); err != nil {
			return e, err
		}
		if e.Address, err = c.U32(); err != nil {
			return e, err
		}
		if e.Flags, err = c.U32(); err != nil {
			return e, err
		}
		if v.AtLeast(248) {
			if e.DataSize, err = c.U32(); err != nil {
				return e, err
			}
		}
		return e, nil
	}
}

// RefPointer is one slot of the file-level indirection table. Records that
// need to share an object store a small index into this table instead of a
// direct offset.
type RefPointer struct {
	Address uint32
}

const refPointerSize = 4

func decodeRefPointer(c *Cursor) (RefPointer, error) {
	addr, err := c.U32()
	return RefPointer{Address: addr}, err
}
