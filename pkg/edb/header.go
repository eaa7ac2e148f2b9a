package edb

import (
	"encoding/binary"
	"fmt"
)

// edbMagic is "GEOM". The first byte of a big-endian file is therefore 'G';
// anything else means little-endian.
const edbMagic = 0x47454F4D

const bigEndianMarker = 0x47

// ListKind identifies one typed record array in the header directory.
type ListKind int

const (
	ListSections ListKind = iota
	ListRefPointers
	ListEntities
	ListAnimations
	ListAnimSkins
	ListScripts
	ListMaps
	ListTextures
	ListParticles    // v221+
	ListSpreadsheets // v221+
	ListFonts        // v248+
)

// String returns the directory list name.
func (k ListKind) String() string {
	switch k {
	case ListSections:
		return "sections"
	case ListRefPointers:
		return "refpointers"
	case ListEntities:
		return "entities"
	case ListAnimations:
		return "animations"
	case ListAnimSkins:
		return "animskins"
	case ListScripts:
		return "scripts"
	case ListMaps:
		return "maps"
	case ListTextures:
		return "textures"
	case ListParticles:
		return "particles"
	case ListSpreadsheets:
		return "spreadsheets"
	case ListFonts:
		return "fonts"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ArrayPointer locates one typed record array: Count fixed-size records
// starting at the absolute file offset Address.
type ArrayPointer struct {
	Count   uint32
	Address uint32
}

// Header is the fixed EDB preamble plus the directory of array pointers.
type Header struct {
	Hashcode     uint32
	Version      Version
	Flags        uint32
	Time         uint32
	FileSize     uint32
	BaseFileSize uint32
	Platform     Platform
	Directory    map[ListKind]ArrayPointer
}

// DirectoryKinds returns the set and order of directory entries for a
// version. The directory grew over time; order is part of the layout.
func DirectoryKinds(v Version) []ListKind {
	kinds := []ListKind{
		ListSections, ListRefPointers, ListEntities, ListAnimations,
		ListAnimSkins, ListScripts, ListMaps, ListTextures,
	}
	if v.AtLeast(221) {
		kinds = append(kinds, ListParticles, ListSpreadsheets)
	}
	if v.AtLeast(248) {
		kinds = append(kinds, ListFonts)
	}
	return kinds
}

// DetectByteOrder inspects the leading marker byte. A big-endian file
// stores the 'G' of "GEOM" first; every other value means little-endian.
func DetectByteOrder(data []byte) (binary.ByteOrder, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrCorruptHeader)
	}
	if data[0] == bigEndianMarker {
		return binary.BigEndian, nil
	}
	return binary.LittleEndian, nil
}

// parseHeader reads the preamble and directory, leaving the cursor just
// past the last directory entry. Header failures are fatal for the file.
func parseHeader(c *Cursor) (*Header, error) {
	if err := c.Seek(0); err != nil {
		return nil, err
	}

	magic, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: reading magic", ErrCorruptHeader)
	}
	if magic != edbMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrCorruptHeader, magic)
	}

	h := &Header{}
	fields := []struct {
		name string
		dst  *uint32
	}{
		{"hashcode", &h.Hashcode},
		{"version", (*uint32)(&h.Version)},
		{"flags", &h.Flags},
		{"time", &h.Time},
		{"file size", &h.FileSize},
		{"base file size", &h.BaseFileSize},
		{"platform", (*uint32)(&h.Platform)},
	}
	for _, f := range fields {
		v, err := c.U32()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s", ErrCorruptHeader, f.name)
		}
		*f.dst = v
	}

	if !h.Version.Supported() {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptHeader, h.Version)
	}
	if !h.Platform.Known() {
		return nil, fmt.Errorf("%w: platform tag %d", ErrUnsupportedPlatform, uint32(h.Platform))
	}

	h.Directory = make(map[ListKind]ArrayPointer)
	for _, kind := range DirectoryKinds(h.Version) {
		count, err := c.U32()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s count", ErrCorruptHeader, kind)
		}
		address, err := c.U32()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s address", ErrCorruptHeader, kind)
		}
		h.Directory[kind] = ArrayPointer{Count: count, Address: address}
	}

	return h, nil
}
