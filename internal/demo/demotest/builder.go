// Package demotest builds demo byte streams for tests.
package demotest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/vburojevic/demostats/internal/protocol"
)

// Builder assembles a demo block by block. Message helpers append to the
// current block, starting one if needed.
type Builder struct {
	track    string
	protocol uint32
	flags    uint32
	blocks   []*bytes.Buffer
}

// New returns a builder for a NetQuake demo with CD track -1.
func New() *Builder {
	return &Builder{track: "-1", protocol: protocol.ProtocolNetQuake}
}

// Track overrides the CD track line, without the newline.
func (b *Builder) Track(line string) *Builder {
	b.track = line
	return b
}

// Block starts a new block.
func (b *Builder) Block() *Builder {
	b.blocks = append(b.blocks, &bytes.Buffer{})
	return b
}

func (b *Builder) cur() *bytes.Buffer {
	if len(b.blocks) == 0 {
		b.Block()
	}
	return b.blocks[len(b.blocks)-1]
}

// Raw appends a message with an arbitrary payload.
func (b *Builder) Raw(t protocol.MessageType, payload []byte) *Builder {
	w := b.cur()
	w.WriteByte(byte(t))
	w.Write(payload)
	return b
}

func long(v int32) []byte {
	buf := make([]byte, 4)
	protocol.PutLong(buf, v)
	return buf
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

// ServerInfo appends svc_serverinfo and switches the builder to version so
// later messages use its coordinate widths. mapName becomes the first model
// precache entry.
func (b *Builder) ServerInfo(version, flags uint32, title, mapName string) *Builder {
	var p []byte
	p = append(p, long(int32(version))...)
	if version == protocol.ProtocolRMQ {
		p = append(p, long(int32(flags))...)
	}
	p = append(p, 1, 0) // maxclients, gametype
	p = append(p, cstr(title)...)
	if mapName != "" {
		p = append(p, cstr(mapName)...)
		p = append(p, cstr("progs/player.mdl")...)
	}
	p = append(p, 0)                          // end of models
	p = append(p, cstr("weapons/ric1.wav")...) // sounds
	p = append(p, 0)
	b.protocol = version
	b.flags = flags
	return b.Raw(protocol.SvcServerInfo, p)
}

// Version appends svc_version.
func (b *Builder) Version(version uint32) *Builder {
	b.protocol = version
	return b.Raw(protocol.SvcVersion, long(int32(version)))
}

// UpdateStat appends svc_updatestat.
func (b *Builder) UpdateStat(index uint8, value int32) *Builder {
	return b.Raw(protocol.SvcUpdateStat, append([]byte{index}, long(value)...))
}

// Time appends svc_time.
func (b *Builder) Time(seconds float32) *Builder {
	buf := make([]byte, 4)
	protocol.PutFloat(buf, seconds)
	return b.Raw(protocol.SvcTime, buf)
}

func (b *Builder) KilledMonster() *Builder { return b.Raw(protocol.SvcKilledMonster, nil) }
func (b *Builder) FoundSecret() *Builder   { return b.Raw(protocol.SvcFoundSecret, nil) }
func (b *Builder) Intermission() *Builder  { return b.Raw(protocol.SvcIntermission, nil) }
func (b *Builder) Nop() *Builder           { return b.Raw(protocol.SvcNop, nil) }

// Print appends svc_print.
func (b *Builder) Print(s string) *Builder {
	return b.Raw(protocol.SvcPrint, cstr(s))
}

func (b *Builder) coordSize() int {
	if b.protocol != protocol.ProtocolRMQ {
		return 2
	}
	switch {
	case b.flags&(protocol.FlagFloatCoord|protocol.FlagInt32Coord) != 0:
		return 4
	case b.flags&protocol.FlagCoord24 != 0:
		return 3
	}
	return 2
}

func (b *Builder) angleSize() int {
	if b.protocol != protocol.ProtocolRMQ {
		return 1
	}
	switch {
	case b.flags&protocol.FlagFloatAngle != 0:
		return 4
	case b.flags&protocol.FlagShortAngle != 0:
		return 2
	}
	return 1
}

// SetAngle appends svc_setangle.
func (b *Builder) SetAngle() *Builder {
	return b.Raw(protocol.SvcSetAngle, make([]byte, 3*b.angleSize()))
}

// Sound appends a svc_sound with volume and attenuation present.
func (b *Builder) Sound() *Builder {
	p := []byte{1<<0 | 1<<1, 255, 64, 0x08, 0x00, 3}
	p = append(p, make([]byte, 3*b.coordSize())...)
	return b.Raw(protocol.SvcSound, p)
}

// Particle appends svc_particle.
func (b *Builder) Particle() *Builder {
	return b.Raw(protocol.SvcParticle, make([]byte, 3*b.coordSize()+5))
}

// TempEntity appends a TE_GUNSHOT temp entity.
func (b *Builder) TempEntity() *Builder {
	p := append([]byte{2}, make([]byte, 3*b.coordSize())...)
	return b.Raw(protocol.SvcTempEntity, p)
}

// ClientData appends a svc_clientdata with items and weapon set.
func (b *Builder) ClientData() *Builder {
	bits := uint16(1<<9 | 1<<14)
	p := []byte{byte(bits), byte(bits >> 8)}
	p = append(p, long(0x1001)...) // items
	p = append(p, 1)               // weapon
	p = append(p, 100, 0)          // health
	p = append(p, 25, 25, 0, 0, 0, 1)
	return b.Raw(protocol.SvcClientData, p)
}

// EntityUpdate appends a fast update moving entity 1 on all three axes.
func (b *Builder) EntityUpdate() *Builder {
	// U_SIGNAL | U_MOREBITS | U_ORIGIN1 | U_ORIGIN2 | U_ORIGIN3, then
	// U_ANGLE1 in the second byte.
	first := byte(0x80 | 1<<0 | 1<<1 | 1<<2 | 1<<3)
	p := []byte{1 << 0} // U_ANGLE1 >> 8
	p = append(p, 1)    // entity
	p = append(p, make([]byte, 3*b.coordSize()+b.angleSize())...)
	return b.Raw(protocol.MessageType(first), p)
}

// Bytes renders the demo file.
func (b *Builder) Bytes() []byte {
	var out bytes.Buffer
	out.WriteString(b.track)
	out.WriteByte('\n')
	for _, blk := range b.blocks {
		out.Write(long(int32(blk.Len())))
		out.Write(make([]byte, 12)) // view angles
		out.Write(blk.Bytes())
	}
	return out.Bytes()
}

// WriteFile writes the demo into dir and returns its path.
func (b *Builder) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("writing demo: %v", err)
	}
	return path
}
