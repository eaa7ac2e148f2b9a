package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/eurogeo/internal/logger"
	"github.com/Faultbox/eurogeo/internal/triggers"
	"github.com/Faultbox/eurogeo/pkg/edb"
)

// mapDocument is the JSON shape written for one map.
type mapDocument struct {
	Hashcode   string         `json:"hashcode"`
	Zones      []zoneDoc      `json:"zones"`
	Paths      []edb.Path     `json:"paths"`
	Placements []placementDoc `json:"placements"`
	Lights     []edb.Light    `json:"lights"`
	Triggers   []triggerDoc   `json:"triggers"`
	Dropped    int            `json:"dropped_triggers,omitempty"`
}

type zoneDoc struct {
	Identifier uint32 `json:"identifier"`
	Flags      uint32 `json:"flags"`
	ZoneID     uint32 `json:"zone_id"`
	EntityHash string `json:"entity_hashcode"`
}

type placementDoc struct {
	ObjectRef string     `json:"object_ref"`
	Position  [3]float32 `json:"position"`
	Rotation  [3]float32 `json:"rotation"`
	Scale     [3]float32 `json:"scale"`
	Flags     uint32     `json:"flags"`
}

type triggerDoc struct {
	Type     string     `json:"type"`
	Subtype  string     `json:"subtype,omitempty"`
	Position [3]float32 `json:"position"`
	Rotation [3]float32 `json:"rotation"`
	Scale    [3]float32 `json:"scale"`
	Data     [8]uint32  `json:"data"`
	Links    []int32    `json:"links,omitempty"`
}

// Maps decodes every map in the file and writes one JSON document per map
// under outDir. Trigger types are named via defs; a nil defs falls back to
// generated placeholder names.
func Maps(f *edb.File, defs *triggers.Defs, outDir string, pretty bool) (Summary, error) {
	var sum Summary

	entries, err := f.List(edb.ListMaps)
	if err != nil {
		return sum, fmt.Errorf("reading map list: %w", err)
	}
	if len(entries) == 0 {
		return sum, nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return sum, fmt.Errorf("creating output dir: %w", err)
	}

	for _, entry := range entries {
		m, err := f.DecodeMap(f.Cursor(), entry)
		if err != nil {
			logger.Warn("skipping map",
				zap.String("hashcode", fmt.Sprintf("0x%08x", entry.Hashcode)),
				zap.Error(err))
			sum.Skipped++
			continue
		}

		name := fmt.Sprintf("0x%08x.json", m.Hashcode)
		if err := writeJSON(filepath.Join(outDir, name), mapToDocument(m, defs), pretty); err != nil {
			return sum, fmt.Errorf("map 0x%08x: %w", m.Hashcode, err)
		}
		sum.Exported++

		if m.DroppedTriggers > 0 {
			logger.Warn("map has out-of-range trigger type indices",
				zap.String("hashcode", fmt.Sprintf("0x%08x", m.Hashcode)),
				zap.Int("dropped", m.DroppedTriggers))
		}
	}
	return sum, nil
}

func mapToDocument(m *edb.Map, defs *triggers.Defs) mapDocument {
	doc := mapDocument{
		Hashcode: fmt.Sprintf("0x%08x", m.Hashcode),
		Paths:    m.Paths,
		Lights:   m.Lights,
		Dropped:  m.DroppedTriggers,
	}

	for _, z := range m.Zones {
		doc.Zones = append(doc.Zones, zoneDoc{
			Identifier: z.Identifier,
			Flags:      z.Flags,
			ZoneID:     z.Entity.MapZone.ZoneID,
			EntityHash: fmt.Sprintf("0x%08x", z.Entity.Hashcode),
		})
	}

	for _, p := range m.Placements {
		doc.Placements = append(doc.Placements, placementDoc{
			ObjectRef: fmt.Sprintf("0x%08x", p.ObjectRef),
			Position:  p.Position,
			Rotation:  p.Rotation,
			Scale:     p.Scale,
			Flags:     p.Flags,
		})
	}

	for _, t := range m.Triggers {
		td := triggerDoc{
			Type:     defs.TypeName(t.Type),
			Position: t.Position,
			Rotation: t.Rotation,
			Scale:    t.Scale,
			Data:     t.Data,
			Links:    t.Links,
		}
		if t.HasSubtype {
			td.Subtype = defs.SubtypeName(t.Type, t.Subtype)
		}
		doc.Triggers = append(doc.Triggers, td)
	}
	return doc
}

func writeJSON(path string, v any, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
