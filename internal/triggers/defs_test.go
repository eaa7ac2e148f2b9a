package triggers

import "testing"

const sampleDefs = `
game: sphinx
triggers:
  10:
    name: Checkpoint
    subtypes:
      99: Silent
  20:
    name: Door
`

func TestParseDefs(t *testing.T) {
	d, err := ParseDefs([]byte(sampleDefs))
	if err != nil {
		t.Fatalf("ParseDefs failed: %v", err)
	}
	if d.Game != "sphinx" {
		t.Errorf("game = %s", d.Game)
	}
	if len(d.Types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(d.Types))
	}
}

func TestTypeName(t *testing.T) {
	d, err := ParseDefs([]byte(sampleDefs))
	if err != nil {
		t.Fatal(err)
	}

	if got := d.TypeName(10); got != "Checkpoint" {
		t.Errorf("TypeName(10) = %s", got)
	}
	if got := d.TypeName(77); got != "Trig_77" {
		t.Errorf("TypeName(77) = %s, expected placeholder", got)
	}
}

func TestSubtypeName(t *testing.T) {
	d, err := ParseDefs([]byte(sampleDefs))
	if err != nil {
		t.Fatal(err)
	}

	if got := d.SubtypeName(10, 99); got != "Silent" {
		t.Errorf("SubtypeName(10, 99) = %s", got)
	}
	if got := d.SubtypeName(10, 5); got != "TrigSub_5" {
		t.Errorf("SubtypeName(10, 5) = %s, expected placeholder", got)
	}
	if got := d.SubtypeName(20, 1); got != "TrigSub_1" {
		t.Errorf("type without subtypes = %s, expected placeholder", got)
	}
}

func TestNilDefsFallsBack(t *testing.T) {
	var d *Defs
	if got := d.TypeName(3); got != "Trig_3" {
		t.Errorf("nil defs TypeName = %s", got)
	}
	if got := d.SubtypeName(3, 4); got != "TrigSub_4" {
		t.Errorf("nil defs SubtypeName = %s", got)
	}
}

func TestParseDefs_Malformed(t *testing.T) {
	if _, err := ParseDefs([]byte("triggers: [oops")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
