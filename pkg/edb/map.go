package edb

import "fmt"

// NoSubtype is the sentinel stored in a trigger type's subtype slot when no
// subtype applies. A stored subtype of 0 means the same thing.
const NoSubtype = 0x42000001

// Map is a fully assembled map record: placement and path tables, inline
// zones, and the trigger collection with type indices resolved.
type Map struct {
	Hashcode   uint32
	Paths      []Path
	Placements []Placement
	Lights     []Light
	Zones      []Zone

	TriggerTypes []TriggerType
	Triggers     []Trigger

	// DroppedTriggers counts trigger records whose type index was out of
	// range for the type table. They are skipped rather than failing the map.
	DroppedTriggers int
}

// Zone ties a region identifier to geometry resolved through the
// reference-pointer table.
type Zone struct {
	EntityRef  uint32 // refpointer index
	Identifier uint32
	Flags      uint32

	// Entity is the MapZone entity the reference resolved to.
	Entity *Entity
}

// Path is one node of a map's path network.
type Path struct {
	Type      uint32
	Position  [3]float32
	Flags     uint32
	LinkIndex uint32 // v240+
}

func pathSize(v Version) uint32 {
	if v.AtLeast(240) {
		return 24
	}
	return 20
}

func decodePath(v Version) func(*Cursor) (Path, error) {
	return func(c *Cursor) (Path, error) {
		var p Path
		var err error
		if p.Type, err = c.U32(); err != nil {
			return p, err
		}
		if p.Position, err = c.Vec3(); err != nil {
			return p, err
		}
		if p.Flags, err = c.U32(); err != nil {
			return p, err
		}
		if v.AtLeast(240) {
			if p.LinkIndex, err = c.U32(); err != nil {
				return p, err
			}
		}
		return p, nil
	}
}

// Placement positions a referenced object in the map.
type Placement struct {
	ObjectRef   uint32
	Position    [3]float32
	Rotation    [3]float32
	Scale       [3]float32
	Flags       uint32
	EngineFlags uint32 // v252+
}

func placementSize(v Version) uint32 {
	if v.AtLeast(252) {
		return 48
	}
	return 44
}

func decodePlacement(v Version) func(*Cursor) (Placement, error) {
	return func(c *Cursor) (Placement, error) {
		var p Placement
		var err error
		if p.ObjectRef, err = c.U32(); err != nil {
			return p, err
		}
		if p.Position, err = c.Vec3(); err != nil {
			return p, err
		}
		if p.Rotation, err = c.Vec3(); err != nil {
			return p, err
		}
		if p.Scale, err = c.Vec3(); err != nil {
			return p, err
		}
		if p.Flags, err = c.U32(); err != nil {
			return p, err
		}
		if v.AtLeast(252) {
			if p.EngineFlags, err = c.U32(); err != nil {
				return p, err
			}
		}
		return p, nil
	}
}

// Light is one static light record.
type Light struct {
	Type     uint32
	Position [3]float32
	Color    [3]float32
	Radius   float32
}

const lightSize = 32

func decodeLight(c *Cursor) (Light, error) {
	var l Light
	var err error
	if l.Type, err = c.U32(); err != nil {
		return l, err
	}
	if l.Position, err = c.Vec3(); err != nil {
		return l, err
	}
	if l.Color, err = c.Vec3(); err != nil {
		return l, err
	}
	l.Radius, err = c.F32()
	return l, err
}

// TriggerType is one slot of a map's trigger type table.
type TriggerType struct {
	Type    uint32
	Subtype uint32
}

// Trigger is a decoded trigger record with its type table slot resolved.
// HasSubtype is false when the slot stored 0 or the no-subtype sentinel.
type Trigger struct {
	Type       uint32
	Subtype    uint32
	HasSubtype bool
	Debug      uint16
	GameFlags  uint32
	TrigFlags  uint32
	Position   [3]float32
	Rotation   [3]float32
	Scale      [3]float32
	Data       [8]uint32
	Links      []int32
}

// DecodeMap assembles the map record named by a ListMaps entry. Zone
// references are resolved through the refpointer table and must land on
// MapZone entities; anything else fails the whole map with
// ErrInvalidZoneReference. Triggers with an out-of-range type index are
// dropped and counted instead.
func (f *File) DecodeMap(c *Cursor, entry ArrayEntry) (*Map, error) {
	if err := c.Seek(entry.Address); err != nil {
		return nil, fmt.Errorf("map 0x%x: %w", entry.Hashcode, err)
	}

	m := &Map{Hashcode: entry.Hashcode}

	hashcode, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("map 0x%x: reading hashcode: %w", entry.Hashcode, err)
	}
	if hashcode != entry.Hashcode {
		return nil, fmt.Errorf("%w: map record hashcode 0x%x does not match list entry 0x%x",
			ErrInvalidReference, hashcode, entry.Hashcode)
	}

	var pathsPtr, placementsPtr, lightsPtr ArrayPointer
	for _, ptr := range []*ArrayPointer{&pathsPtr, &placementsPtr, &lightsPtr} {
		if ptr.Count, err = c.U32(); err != nil {
			return nil, fmt.Errorf("map 0x%x: %w", entry.Hashcode, err)
		}
		if ptr.Address, err = c.U32(); err != nil {
			return nil, fmt.Errorf("map 0x%x: %w", entry.Hashcode, err)
		}
	}

	zoneCount, err := c.U32()
	if err != nil {
		return nil, fmt.Errorf("map 0x%x: reading zone count: %w", entry.Hashcode, err)
	}
	if int64(zoneCount)*12 > int64(c.Remaining()) {
		return nil, fmt.Errorf("%w: map 0x%x declares %d zones", ErrInvalidReference, entry.Hashcode, zoneCount)
	}
	m.Zones = make([]Zone, zoneCount)
	for i := range m.Zones {
		z := &m.Zones[i]
		if z.EntityRef, err = c.U32(); err != nil {
			return nil, fmt.Errorf("map 0x%x: zone %d: %w", entry.Hashcode, i, err)
		}
		if z.Identifier, err = c.U32(); err != nil {
			return nil, fmt.Errorf("map 0x%x: zone %d: %w", entry.Hashcode, i, err)
		}
		if z.Flags, err = c.U32(); err != nil {
			return nil, fmt.Errorf("map 0x%x: zone %d: %w", entry.Hashcode, i, err)
		}
	}

	if err := f.decodeTriggerBlock(c, m); err != nil {
		return nil, fmt.Errorf("map 0x%x: %w", entry.Hashcode, err)
	}

	// Side tables last: the trigger block continues inline after the zones,
	// so it must be consumed before the cursor is reused for seeks.
	v := f.header.Version
	if m.Paths, err = ReadArray(c, pathsPtr, pathSize(v), decodePath(v)); err != nil {
		return nil, fmt.Errorf("map 0x%x: paths: %w", entry.Hashcode, err)
	}
	if m.Placements, err = ReadArray(c, placementsPtr, placementSize(v), decodePlacement(v)); err != nil {
		return nil, fmt.Errorf("map 0x%x: placements: %w", entry.Hashcode, err)
	}
	if m.Lights, err = ReadArray(c, lightsPtr, lightSize, decodeLight); err != nil {
		return nil, fmt.Errorf("map 0x%x: lights: %w", entry.Hashcode, err)
	}

	if err := f.resolveZones(m); err != nil {
		return nil, fmt.Errorf("map 0x%x: %w", entry.Hashcode, err)
	}
	return m, nil
}

// decodeTriggerBlock reads the inline trigger type table and trigger records
// at the cursor's current position.
func (f *File) decodeTriggerBlock(c *Cursor, m *Map) error {
	typeCount, err := c.U32()
	if err != nil {
		return fmt.Errorf("reading trigger type count: %w", err)
	}
	triggerCount, err := c.U32()
	if err != nil {
		return fmt.Errorf("reading trigger count: %w", err)
	}
	if int64(typeCount)*8 > int64(c.Remaining()) {
		return fmt.Errorf("%w: %d trigger types declared", ErrInvalidReference, typeCount)
	}

	m.TriggerTypes = make([]TriggerType, typeCount)
	for i := range m.TriggerTypes {
		if m.TriggerTypes[i].Type, err = c.U32(); err != nil {
			return fmt.Errorf("trigger type %d: %w", i, err)
		}
		if m.TriggerTypes[i].Subtype, err = c.U32(); err != nil {
			return fmt.Errorf("trigger type %d: %w", i, err)
		}
	}

	if int64(triggerCount)*minTriggerSize > int64(c.Remaining()) {
		return fmt.Errorf("%w: %d triggers declared", ErrInvalidReference, triggerCount)
	}

	m.Triggers = make([]Trigger, 0, triggerCount)
	for i := uint32(0); i < triggerCount; i++ {
		t, typeIndex, err := decodeTrigger(c)
		if err != nil {
			return fmt.Errorf("trigger %d: %w", i, err)
		}
		if int(typeIndex) >= len(m.TriggerTypes) {
			m.DroppedTriggers++
			continue
		}
		slot := m.TriggerTypes[typeIndex]
		t.Type = slot.Type
		t.Subtype = slot.Subtype
		t.HasSubtype = slot.Subtype != 0 && slot.Subtype != NoSubtype
		m.Triggers = append(m.Triggers, t)
	}
	return nil
}

// minTriggerSize is the encoded size of a trigger with an empty link list:
// type index, debug, two flag words, three vectors, eight data words and the
// link count.
const minTriggerSize = 2 + 2 + 4 + 4 + 3*12 + 8*4 + 4

func decodeTrigger(c *Cursor) (Trigger, uint16, error) {
	var t Trigger
	typeIndex, err := c.U16()
	if err != nil {
		return t, 0, err
	}
	if t.Debug, err = c.U16(); err != nil {
		return t, 0, err
	}
	if t.GameFlags, err = c.U32(); err != nil {
		return t, 0, err
	}
	if t.TrigFlags, err = c.U32(); err != nil {
		return t, 0, err
	}
	if t.Position, err = c.Vec3(); err != nil {
		return t, 0, err
	}
	if t.Rotation, err = c.Vec3(); err != nil {
		return t, 0, err
	}
	if t.Scale, err = c.Vec3(); err != nil {
		return t, 0, err
	}
	for i := range t.Data {
		if t.Data[i], err = c.U32(); err != nil {
			return t, 0, err
		}
	}
	linkCount, err := c.U32()
	if err != nil {
		return t, 0, err
	}
	if int64(linkCount)*4 > int64(c.Remaining()) {
		return t, 0, fmt.Errorf("%w: trigger declares %d links", ErrInvalidReference, linkCount)
	}
	t.Links = make([]int32, linkCount)
	for i := range t.Links {
		if t.Links[i], err = c.I32(); err != nil {
			return t, 0, err
		}
	}
	return t, typeIndex, nil
}

// resolveZones follows each zone's refpointer index to its entity and
// verifies the target is a MapZone.
func (f *File) resolveZones(m *Map) error {
	for i := range m.Zones {
		z := &m.Zones[i]
		addr, err := f.Resolve(z.EntityRef)
		if err != nil {
			return fmt.Errorf("zone %d: %w", i, err)
		}
		e, err := f.DecodeEntity(f.Cursor(), addr)
		if err != nil {
			return fmt.Errorf("zone %d: %w", i, err)
		}
		if e.MapZone == nil {
			return fmt.Errorf("%w: zone %d resolved to entity 0x%x with tag 0x%x",
				ErrInvalidZoneReference, i, e.Hashcode, e.Type)
		}
		z.Entity = e
	}
	return nil
}
