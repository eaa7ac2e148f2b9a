package edb

import (
	"bytes"
	"encoding/binary"
)

// edbBuilder assembles synthetic EDB images for tests. The header and
// directory are emitted by build(); everything else is appended to the body
// and addressed via offset().
type edbBuilder struct {
	order    binary.ByteOrder
	version  uint32
	platform uint32
	body     *bytes.Buffer
	base     uint32
	dir      map[ListKind]ArrayPointer
}

func newBuilder(version uint32, platform Platform, order binary.ByteOrder) *edbBuilder {
	kinds := DirectoryKinds(Version(version))
	return &edbBuilder{
		order:    order,
		version:  version,
		platform: uint32(platform),
		body:     new(bytes.Buffer),
		base:     uint32(4 + 7*4 + len(kinds)*8),
		dir:      make(map[ListKind]ArrayPointer),
	}
}

// offset returns the absolute file offset the next write lands at.
func (b *edbBuilder) offset() uint32 {
	return b.base + uint32(b.body.Len())
}

func (b *edbBuilder) u8(v uint8)   { b.body.WriteByte(v) }
func (b *edbBuilder) u16(v uint16) { binary.Write(b.body, b.order, v) }
func (b *edbBuilder) u32(v uint32) { binary.Write(b.body, b.order, v) }
func (b *edbBuilder) i32(v int32)  { binary.Write(b.body, b.order, v) }
func (b *edbBuilder) f32(v float32) {
	binary.Write(b.body, b.order, v)
}
func (b *edbBuilder) vec3(x, y, z float32) {
	b.f32(x)
	b.f32(y)
	b.f32(z)
}
func (b *edbBuilder) raw(data []byte) { b.body.Write(data) }

// rel writes a relative pointer to an absolute target offset.
func (b *edbBuilder) rel(target uint32) {
	b.i32(int32(int64(target) - int64(b.offset())))
}

// setList records the directory entry for a kind at the current offset.
func (b *edbBuilder) setList(kind ListKind, count uint32) {
	b.dir[kind] = ArrayPointer{Count: count, Address: b.offset()}
}

// entry writes one ArrayEntry record sized for the builder's version.
func (b *edbBuilder) entry(hashcode, address, flags uint32) {
	b.u32(hashcode)
	b.u32(address)
	b.u32(flags)
	if Version(b.version).AtLeast(248) {
		b.u32(0)
	}
}

func (b *edbBuilder) build() []byte {
	out := new(bytes.Buffer)
	binary.Write(out, b.order, uint32(edbMagic))
	for _, v := range []uint32{
		0xDEAD0001, // hashcode
		b.version,
		0,                             // flags
		0,                             // time
		b.base + uint32(b.body.Len()), // file size
		b.base + uint32(b.body.Len()), // base file size
		b.platform,
	} {
		binary.Write(out, b.order, v)
	}
	for _, kind := range DirectoryKinds(Version(b.version)) {
		ptr := b.dir[kind]
		binary.Write(out, b.order, ptr.Count)
		binary.Write(out, b.order, ptr.Address)
	}
	out.Write(b.body.Bytes())
	return out.Bytes()
}

// entityHeader writes the common entity preamble for the builder's version.
func (b *edbBuilder) entityHeader(tag, hashcode uint32) {
	b.u32(tag)
	b.u32(hashcode)
	b.u32(0) // flags
	if Version(b.version).AtLeast(252) {
		b.u32(0) // game flags
	}
	b.vec3(0, 0, 0)
	b.f32(1.0)
}
