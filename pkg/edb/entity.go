package edb

import "fmt"

// Entity type tags.
const (
	EntityTagMesh     = 0x601
	EntityTagSplit    = 0x603
	EntityTagInstance = 0x606
	EntityTagMapZone  = 0x608
)

// unknownSpanLimit caps the raw span captured for unrecognized entity
// tags; the format gives no record length to honor for them.
const unknownSpanLimit = 256

// Entity is a decoded entity record. Exactly one of the variant pointers
// is set, matching Type; unrecognized tags populate Unknown instead of
// failing, so bulk decoding can continue past newer entity kinds.
type Entity struct {
	Type      uint32
	Hashcode  uint32
	Flags     uint32
	GameFlags uint32 // v252+
	Center    [3]float32
	Radius    float32

	Mesh     *MeshEntity
	Split    *SplitEntity
	Instance *InstanceEntity
	MapZone  *MapZoneEntity
	Unknown  *UnknownEntity
}

// MeshEntity references renderable geometry. Vertex and index payloads are
// variable-length and platform-packed, so only their addresses are decoded
// here; use VertexData/IndexData to read them when actually needed.
type MeshEntity struct {
	TextureHashes []uint32
	VertexCount   uint32
	VertexAddress uint32
	IndexCount    uint32
	IndexAddress  uint32
}

// SplitEntity groups child entities. Children are decoded lazily via
// DecodeEntity at each stored offset.
type SplitEntity struct {
	ChildOffsets []uint32
}

// InstanceEntity places another entity, referenced by hashcode, under a
// transform.
type InstanceEntity struct {
	EntityHash uint32
	Position   [3]float32
	Rotation   [3]float32
	Scale      [3]float32
}

// MapZoneEntity is the geometry payload a map zone's reference index
// resolves to.
type MapZoneEntity struct {
	ZoneID         uint32
	VisibilityMask uint32
}

// UnknownEntity carries the raw bytes of a record with an unrecognized
// type tag, starting at the record offset.
type UnknownEntity struct {
	Tag uint32
	Raw []byte
}

// vertexStride returns the packed vertex size for a platform.
func vertexStride(p Platform) uint32 {
	switch p {
	case PlatformPS2:
		return 28
	case PlatformGameCube, PlatformWii:
		return 24
	default:
		return 36
	}
}

// VertexData reads the mesh's raw packed vertex buffer. The packing is
// platform-specific; callers interpret it with the stride for the file's
// platform.
func (m *MeshEntity) VertexData(c *Cursor, platform Platform) ([]byte, error) {
	if err := c.Seek(m.VertexAddress); err != nil {
		return nil, err
	}
	return c.Bytes(int(m.VertexCount) * int(vertexStride(platform)))
}

// IndexData reads the mesh's 16-bit index buffer.
func (m *MeshEntity) IndexData(c *Cursor) ([]uint16, error) {
	if err := c.Seek(m.IndexAddress); err != nil {
		return nil, err
	}
	if int(m.IndexCount)*2 > c.Remaining() {
		return nil, fmt.Errorf("%w: %d indices at 0x%x exceed file size",
			ErrInvalidReference, m.IndexCount, m.IndexAddress)
	}
	out := make([]uint16, m.IndexCount)
	for i := range out {
		v, err := c.U16()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// DecodeEntity decodes one entity record at an absolute offset. Layout is
// parameterized by the file's version and platform.
func (f *File) DecodeEntity(c *Cursor, offset uint32) (*Entity, error) {
	if int64(offset) >= int64(len(f.data)) {
		return nil, fmt.Errorf("%w: entity offset 0x%x beyond file size 0x%x",
			ErrInvalidReference, offset, len(f.data))
	}
	if err := c.Seek(offset); err != nil {
		return nil, err
	}

	e := &Entity{}
	var err error
	if e.Type, err = c.U32(); err != nil {
		return nil, fmt.Errorf("reading entity tag: %w", err)
	}
	if e.Hashcode, err = c.U32(); err != nil {
		return nil, fmt.Errorf("reading entity hashcode: %w", err)
	}
	if e.Flags, err = c.U32(); err != nil {
		return nil, fmt.Errorf("reading entity flags: %w", err)
	}
	if f.header.Version.AtLeast(252) {
		if e.GameFlags, err = c.U32(); err != nil {
			return nil, fmt.Errorf("reading entity game flags: %w", err)
		}
	}
	if e.Center, err = c.Vec3(); err != nil {
		return nil, fmt.Errorf("reading entity bounds center: %w", err)
	}
	if e.Radius, err = c.F32(); err != nil {
		return nil, fmt.Errorf("reading entity bounds radius: %w", err)
	}

	switch e.Type {
	case EntityTagMesh:
		e.Mesh, err = decodeMesh(c)
	case EntityTagSplit:
		e.Split, err = decodeSplit(c)
	case EntityTagInstance:
		e.Instance, err = decodeInstance(c)
	case EntityTagMapZone:
		e.MapZone, err = decodeMapZone(c)
	default:
		e.Unknown, err = decodeUnknown(c, offset, e.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding entity 0x%x (tag 0x%x): %w", e.Hashcode, e.Type, err)
	}
	return e, nil
}

func decodeMesh(c *Cursor) (*MeshEntity, error) {
	m := &MeshEntity{}

	texCount, err := c.U32()
	if err != nil {
		return nil, err
	}
	if int64(texCount)*4 > int64(c.Remaining()) {
		return nil, fmt.Errorf("%w: mesh declares %d texture refs", ErrInvalidReference, texCount)
	}
	m.TextureHashes = make([]uint32, texCount)
	for i := range m.TextureHashes {
		if m.TextureHashes[i], err = c.U32(); err != nil {
			return nil, err
		}
	}

	if m.VertexCount, err = c.U32(); err != nil {
		return nil, err
	}
	if m.VertexAddress, err = c.RelPtr(); err != nil {
		return nil, err
	}
	if m.IndexCount, err = c.U32(); err != nil {
		return nil, err
	}
	if m.IndexAddress, err = c.RelPtr(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeSplit(c *Cursor) (*SplitEntity, error) {
	count, err := c.U32()
	if err != nil {
		return nil, err
	}
	if int64(count)*4 > int64(c.Remaining()) {
		return nil, fmt.Errorf("%w: split declares %d children", ErrInvalidReference, count)
	}
	s := &SplitEntity{ChildOffsets: make([]uint32, count)}
	for i := range s.ChildOffsets {
		if s.ChildOffsets[i], err = c.RelPtr(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func decodeInstance(c *Cursor) (*InstanceEntity, error) {
	in := &InstanceEntity{}
	var err error
	if in.EntityHash, err = c.U32(); err != nil {
		return nil, err
	}
	if in.Position, err = c.Vec3(); err != nil {
		return nil, err
	}
	if in.Rotation, err = c.Vec3(); err != nil {
		return nil, err
	}
	if in.Scale, err = c.Vec3(); err != nil {
		return nil, err
	}
	return in, nil
}

func decodeMapZone(c *Cursor) (*MapZoneEntity, error) {
	z := &MapZoneEntity{}
	var err error
	if z.ZoneID, err = c.U32(); err != nil {
		return nil, err
	}
	if z.VisibilityMask, err = c.U32(); err != nil {
		return nil, err
	}
	return z, nil
}

func decodeUnknown(c *Cursor, offset uint32, tag uint32) (*UnknownEntity, error) {
	if err := c.Seek(offset); err != nil {
		return nil, err
	}
	span := c.Remaining()
	if span > unknownSpanLimit {
		span = unknownSpanLimit
	}
	raw, err := c.Bytes(span)
	if err != nil {
		return nil, err
	}
	return &UnknownEntity{Tag: tag, Raw: raw}, nil
}
