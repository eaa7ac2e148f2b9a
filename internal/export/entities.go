package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/eurogeo/internal/logger"
	"github.com/Faultbox/eurogeo/pkg/edb"
)

// entityDocument is the JSON shape written for one entity record.
type entityDocument struct {
	Hashcode string     `json:"hashcode"`
	Kind     string     `json:"kind"`
	Flags    uint32     `json:"flags"`
	Center   [3]float32 `json:"center"`
	Radius   float32    `json:"radius"`

	Mesh     *meshDoc     `json:"mesh,omitempty"`
	Split    *splitDoc    `json:"split,omitempty"`
	Instance *instanceDoc `json:"instance,omitempty"`
	MapZone  *mapZoneDoc  `json:"map_zone,omitempty"`
	Unknown  *unknownDoc  `json:"unknown,omitempty"`
}

type meshDoc struct {
	TextureHashes []string `json:"texture_hashes"`
	VertexCount   uint32   `json:"vertex_count"`
	IndexCount    uint32   `json:"index_count"`
}

type splitDoc struct {
	ChildCount int `json:"child_count"`
}

type instanceDoc struct {
	EntityHash string     `json:"entity_hashcode"`
	Position   [3]float32 `json:"position"`
	Rotation   [3]float32 `json:"rotation"`
	Scale      [3]float32 `json:"scale"`
}

type mapZoneDoc struct {
	ZoneID         uint32 `json:"zone_id"`
	VisibilityMask uint32 `json:"visibility_mask"`
}

type unknownDoc struct {
	Tag      string `json:"tag"`
	RawBytes int    `json:"raw_bytes"`
}

// Entities decodes every entity in the file and writes one JSON document
// per record under outDir.
func Entities(f *edb.File, outDir string, pretty bool) (Summary, error) {
	var sum Summary

	entries, err := f.List(edb.ListEntities)
	if err != nil {
		return sum, fmt.Errorf("reading entity list: %w", err)
	}
	if len(entries) == 0 {
		return sum, nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return sum, fmt.Errorf("creating output dir: %w", err)
	}

	for _, entry := range entries {
		e, err := f.DecodeEntity(f.Cursor(), entry.Address)
		if err != nil {
			logger.Warn("skipping entity",
				zap.String("hashcode", fmt.Sprintf("0x%08x", entry.Hashcode)),
				zap.Error(err))
			sum.Skipped++
			continue
		}

		name := fmt.Sprintf("0x%08x.json", entry.Hashcode)
		if err := writeJSON(filepath.Join(outDir, name), entityToDocument(e), pretty); err != nil {
			return sum, fmt.Errorf("entity 0x%08x: %w", entry.Hashcode, err)
		}
		sum.Exported++
	}
	return sum, nil
}

func entityToDocument(e *edb.Entity) entityDocument {
	doc := entityDocument{
		Hashcode: fmt.Sprintf("0x%08x", e.Hashcode),
		Flags:    e.Flags,
		Center:   e.Center,
		Radius:   e.Radius,
	}

	switch {
	case e.Mesh != nil:
		doc.Kind = "mesh"
		md := &meshDoc{
			VertexCount: e.Mesh.VertexCount,
			IndexCount:  e.Mesh.IndexCount,
		}
		for _, h := range e.Mesh.TextureHashes {
			md.TextureHashes = append(md.TextureHashes, fmt.Sprintf("0x%08x", h))
		}
		doc.Mesh = md
	case e.Split != nil:
		doc.Kind = "split"
		doc.Split = &splitDoc{ChildCount: len(e.Split.ChildOffsets)}
	case e.Instance != nil:
		doc.Kind = "instance"
		doc.Instance = &instanceDoc{
			EntityHash: fmt.Sprintf("0x%08x", e.Instance.EntityHash),
			Position:   e.Instance.Position,
			Rotation:   e.Instance.Rotation,
			Scale:      e.Instance.Scale,
		}
	case e.MapZone != nil:
		doc.Kind = "map_zone"
		doc.MapZone = &mapZoneDoc{
			ZoneID:         e.MapZone.ZoneID,
			VisibilityMask: e.MapZone.VisibilityMask,
		}
	default:
		doc.Kind = "unknown"
		doc.Unknown = &unknownDoc{
			Tag:      fmt.Sprintf("0x%x", e.Unknown.Tag),
			RawBytes: len(e.Unknown.Raw),
		}
	}
	return doc
}
