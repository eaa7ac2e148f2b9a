package edb

import "fmt"

// Version is the EDB format version stored in the header. Record layouts
// grow optional trailing fields at specific versions; decoders gate on
// AtLeast rather than on exact values.
type Version uint32

// Versions known to this reader.
var supportedVersions = map[Version]bool{
	182: true,
	213: true,
	221: true,
	240: true,
	248: true,
	252: true,
	259: true,
	260: true,
}

// Supported reports whether this reader knows the version's layouts.
func (v Version) Supported() bool { return supportedVersions[v] }

// AtLeast reports whether the version is >= n.
func (v Version) AtLeast(n uint32) bool { return uint32(v) >= n }

// Platform identifies the target hardware an EDB file was built for. It is
// stored in the header and selects the texture codec at runtime.
type Platform uint32

const (
	PlatformPC       Platform = 1
	PlatformXbox     Platform = 2
	PlatformPS2      Platform = 3
	PlatformGameCube Platform = 4
	PlatformXbox360  Platform = 5
	PlatformWii      Platform = 6
)

// Known reports whether the platform tag is one this reader understands.
func (p Platform) Known() bool {
	return p >= PlatformPC && p <= PlatformWii
}

// String returns a human-readable platform name.
func (p Platform) String() string {
	switch p {
	case PlatformPC:
		return "PC"
	case PlatformXbox:
		return "Xbox"
	case PlatformPS2:
		return "PS2"
	case PlatformGameCube:
		return "GameCube"
	case PlatformXbox360:
		return "Xbox 360"
	case PlatformWii:
		return "Wii"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(p))
	}
}
