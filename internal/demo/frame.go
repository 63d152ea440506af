package demo

import (
	"errors"
	"fmt"

	"github.com/vburojevic/demostats/internal/protocol"
)

var errShort = errors.New("message runs past end of block")

// cursor walks a block payload. Reads past the end set err and return zero;
// callers check err once per message.
type cursor struct {
	buf []byte
	pos int
	err error
}

func (c *cursor) skip(n int) {
	if c.err != nil {
		return
	}
	if n > len(c.buf)-c.pos {
		c.err = errShort
		c.pos = len(c.buf)
		return
	}
	c.pos += n
}

func (c *cursor) u8() byte {
	if c.err != nil || c.pos >= len(c.buf) {
		c.err = errShort
		return 0
	}
	b := c.buf[c.pos]
	c.pos++
	return b
}

func (c *cursor) short() int16 {
	start := c.pos
	c.skip(2)
	if c.err != nil {
		return 0
	}
	return protocol.Short(c.buf[start:])
}

func (c *cursor) long() int32 {
	start := c.pos
	c.skip(4)
	if c.err != nil {
		return 0
	}
	return protocol.Long(c.buf[start:])
}

func (c *cursor) str() {
	if c.err != nil {
		return
	}
	for c.pos < len(c.buf) {
		if c.buf[c.pos] == 0 {
			c.pos++
			return
		}
		c.pos++
	}
	c.err = errShort
}

// framer tracks the protocol state needed to find message boundaries.
type framer struct {
	protocol uint32
	flags    uint32
	seen     bool
}

func (f *framer) coordSize() int {
	if f.protocol != protocol.ProtocolRMQ {
		return 2
	}
	switch {
	case f.flags&protocol.FlagFloatCoord != 0, f.flags&protocol.FlagInt32Coord != 0:
		return 4
	case f.flags&protocol.FlagCoord24 != 0:
		return 3
	}
	return 2
}

func (f *framer) angleSize() int {
	if f.protocol != protocol.ProtocolRMQ {
		return 1
	}
	switch {
	case f.flags&protocol.FlagFloatAngle != 0:
		return 4
	case f.flags&protocol.FlagShortAngle != 0:
		return 2
	}
	return 1
}

func (f *framer) fitz() bool {
	return f.protocol == protocol.ProtocolFitzQuake || f.protocol == protocol.ProtocolRMQ
}

func (f *framer) setProtocol(version, flags uint32) error {
	if !protocol.IsSupported(version) {
		return fmt.Errorf("%w: %d", errProtocol, version)
	}
	f.protocol = version
	f.flags = flags
	f.seen = true
	return nil
}

var errProtocol = errors.New("protocol version")

// split breaks a block payload into messages. Payloads alias data.
func (f *framer) split(data []byte) ([]Message, error) {
	var msgs []Message
	c := &cursor{buf: data}
	for c.pos < len(data) {
		start := c.pos
		t := protocol.MessageType(c.u8())
		if err := f.message(c, t); err != nil {
			return msgs, &frameError{pos: start, typ: t, err: err}
		}
		if c.err != nil {
			return msgs, &frameError{pos: start, typ: t, err: c.err}
		}
		msgs = append(msgs, Message{Type: t, Data: data[start+1 : c.pos : c.pos]})
	}
	return msgs, nil
}

type frameError struct {
	pos int
	typ protocol.MessageType
	err error
}

func (e *frameError) Error() string {
	return fmt.Sprintf("%s: %v", e.typ, e.err)
}

func (e *frameError) Unwrap() error {
	return e.err
}

// message advances c past the payload of a message of type t.
func (f *framer) message(c *cursor, t protocol.MessageType) error {
	if t.IsFastUpdate() {
		f.entityUpdate(c, t)
		return nil
	}

	coord := f.coordSize()
	angle := f.angleSize()

	switch t {
	case protocol.SvcNop, protocol.SvcDisconnect, protocol.SvcKilledMonster,
		protocol.SvcFoundSecret, protocol.SvcIntermission, protocol.SvcSellScreen,
		protocol.SvcBonusFlash:
	case protocol.SvcUpdateStat:
		c.skip(1 + 4)
	case protocol.SvcVersion:
		v := c.long()
		if c.err == nil {
			return f.setProtocol(uint32(v), 0)
		}
	case protocol.SvcSetView, protocol.SvcStopSound:
		c.skip(2)
	case protocol.SvcSound:
		f.sound(c)
	case protocol.SvcTime:
		c.skip(4)
	case protocol.SvcPrint, protocol.SvcStuffText, protocol.SvcCenterPrint,
		protocol.SvcFinale, protocol.SvcCutscene, protocol.SvcSkybox:
		c.str()
	case protocol.SvcSetAngle:
		c.skip(3 * angle)
	case protocol.SvcServerInfo:
		return f.serverInfo(c)
	case protocol.SvcLightStyle, protocol.SvcUpdateName:
		c.skip(1)
		c.str()
	case protocol.SvcUpdateFrags:
		c.skip(1 + 2)
	case protocol.SvcClientData:
		f.clientData(c)
	case protocol.SvcUpdateColors, protocol.SvcCDTrack:
		c.skip(2)
	case protocol.SvcParticle:
		c.skip(3*coord + 3 + 1 + 1)
	case protocol.SvcDamage:
		c.skip(2 + 3*coord)
	case protocol.SvcSpawnStatic:
		f.baseline(c, false)
	case protocol.SvcSpawnStatic2:
		f.baseline(c, true)
	case protocol.SvcSpawnBaseline:
		c.skip(2)
		f.baseline(c, false)
	case protocol.SvcSpawnBaseline2:
		c.skip(2)
		f.baseline(c, true)
	case protocol.SvcTempEntity:
		return f.tempEntity(c)
	case protocol.SvcSetPause, protocol.SvcSignonNum:
		c.skip(1)
	case protocol.SvcSpawnStaticSound:
		c.skip(3*coord + 3)
	case protocol.SvcSpawnStaticSound2:
		c.skip(3*coord + 2 + 2)
	case protocol.SvcFog:
		c.skip(4 + 2)
	default:
		return fmt.Errorf("unknown message type %d", uint8(t))
	}
	return nil
}

func (f *framer) serverInfo(c *cursor) error {
	version := uint32(c.long())
	var flags uint32
	if version == protocol.ProtocolRMQ {
		// flags long, then the usual maxclients and gametype
		flags = uint32(c.long())
	}
	if c.err != nil {
		return nil
	}
	if err := f.setProtocol(version, flags); err != nil {
		return err
	}
	c.skip(2)
	c.str() // level name
	for c.err == nil {
		start := c.pos
		c.str()
		if c.pos-start == 1 {
			break
		}
	}
	for c.err == nil {
		start := c.pos
		c.str()
		if c.pos-start == 1 {
			break
		}
	}
	return nil
}

const (
	sndVolume      = 1 << 0
	sndAttenuation = 1 << 1
	sndLargeEntity = 1 << 3
	sndLargeSound  = 1 << 4
)

func (f *framer) sound(c *cursor) {
	mask := c.u8()
	if mask&sndVolume != 0 {
		c.skip(1)
	}
	if mask&sndAttenuation != 0 {
		c.skip(1)
	}
	if mask&sndLargeEntity != 0 {
		c.skip(2 + 1)
	} else {
		c.skip(2)
	}
	if mask&sndLargeSound != 0 {
		c.skip(2)
	} else {
		c.skip(1)
	}
	c.skip(3 * f.coordSize())
}

const (
	suViewHeight   = 1 << 0
	suIdealPitch   = 1 << 1
	suPunch1       = 1 << 2
	suVelocity1    = 1 << 5
	suItems        = 1 << 9
	suWeaponFrame  = 1 << 12
	suArmor        = 1 << 13
	suWeapon       = 1 << 14
	suExtend1      = 1 << 15
	suWeapon2      = 1 << 16
	suArmor2       = 1 << 17
	suAmmo2        = 1 << 18
	suShells2      = 1 << 19
	suNails2       = 1 << 20
	suRockets2     = 1 << 21
	suCells2       = 1 << 22
	suExtend2      = 1 << 23
	suWeaponFrame2 = 1 << 24
	suWeaponAlpha  = 1 << 25
)

func (f *framer) clientData(c *cursor) {
	bits := uint32(uint16(c.short()))
	if f.fitz() {
		if bits&suExtend1 != 0 {
			bits |= uint32(c.u8()) << 16
		}
		if bits&suExtend2 != 0 {
			bits |= uint32(c.u8()) << 24
		}
	}
	if bits&suViewHeight != 0 {
		c.skip(1)
	}
	if bits&suIdealPitch != 0 {
		c.skip(1)
	}
	for i := 0; i < 3; i++ {
		if bits&(suPunch1<<i) != 0 {
			c.skip(1)
		}
		if bits&(suVelocity1<<i) != 0 {
			c.skip(1)
		}
	}
	if bits&suItems != 0 {
		c.skip(4)
	}
	if bits&suWeaponFrame != 0 {
		c.skip(1)
	}
	if bits&suArmor != 0 {
		c.skip(1)
	}
	if bits&suWeapon != 0 {
		c.skip(1)
	}
	// health, ammo, shells, nails, rockets, cells, active weapon
	c.skip(2 + 6)
	if !f.fitz() {
		return
	}
	for _, bit := range []uint32{suWeapon2, suArmor2, suAmmo2, suShells2, suNails2, suRockets2, suCells2, suWeaponFrame2, suWeaponAlpha} {
		if bits&bit != 0 {
			c.skip(1)
		}
	}
}

const (
	bLargeModel = 1 << 0
	bLargeFrame = 1 << 1
	bAlpha      = 1 << 2
)

func (f *framer) baseline(c *cursor, extended bool) {
	var bits byte
	if extended {
		bits = c.u8()
	}
	if bits&bLargeModel != 0 {
		c.skip(2)
	} else {
		c.skip(1)
	}
	if bits&bLargeFrame != 0 {
		c.skip(2)
	} else {
		c.skip(1)
	}
	// colormap, skin
	c.skip(2)
	c.skip(3 * (f.coordSize() + f.angleSize()))
	if bits&bAlpha != 0 {
		c.skip(1)
	}
}

const (
	teSpike        = 0
	teSuperSpike   = 1
	teGunshot      = 2
	teExplosion    = 3
	teTarExplosion = 4
	teLightning1   = 5
	teLightning2   = 6
	teWizSpike     = 7
	teKnightSpike  = 8
	teLightning3   = 9
	teLavaSplash   = 10
	teTeleport     = 11
	teExplosion2   = 12
	teBeam         = 13
)

func (f *framer) tempEntity(c *cursor) error {
	coord := f.coordSize()
	kind := c.u8()
	if c.err != nil {
		return nil
	}
	switch kind {
	case teSpike, teSuperSpike, teGunshot, teExplosion, teTarExplosion,
		teWizSpike, teKnightSpike, teLavaSplash, teTeleport:
		c.skip(3 * coord)
	case teLightning1, teLightning2, teLightning3, teBeam:
		c.skip(2 + 6*coord)
	case teExplosion2:
		c.skip(3*coord + 2)
	default:
		return fmt.Errorf("unknown temp entity %d", kind)
	}
	return nil
}

const (
	uMoreBits   = 1 << 0
	uOrigin1    = 1 << 1
	uOrigin2    = 1 << 2
	uOrigin3    = 1 << 3
	uAngle2     = 1 << 4
	uFrame      = 1 << 6
	uAngle1     = 1 << 8
	uAngle3     = 1 << 9
	uModel      = 1 << 10
	uColormap   = 1 << 11
	uSkin       = 1 << 12
	uEffects    = 1 << 13
	uLongEntity = 1 << 14
	uExtend1    = 1 << 15
	uAlpha      = 1 << 16
	uFrame2     = 1 << 17
	uModel2     = 1 << 18
	uLerpFinish = 1 << 19
	uScale      = 1 << 20
	uExtend2    = 1 << 23
)

func (f *framer) entityUpdate(c *cursor, t protocol.MessageType) {
	bits := uint32(t) & 0x7f
	if bits&uMoreBits != 0 {
		bits |= uint32(c.u8()) << 8
	}
	if f.fitz() {
		if bits&uExtend1 != 0 {
			bits |= uint32(c.u8()) << 16
		}
		if bits&uExtend2 != 0 {
			bits |= uint32(c.u8()) << 24
		}
	}
	if bits&uLongEntity != 0 {
		c.skip(2)
	} else {
		c.skip(1)
	}
	for _, bit := range []uint32{uModel, uFrame, uColormap, uSkin, uEffects} {
		if bits&bit != 0 {
			c.skip(1)
		}
	}
	coord, angle := f.coordSize(), f.angleSize()
	for _, axis := range [][2]uint32{{uOrigin1, uAngle1}, {uOrigin2, uAngle2}, {uOrigin3, uAngle3}} {
		if bits&axis[0] != 0 {
			c.skip(coord)
		}
		if bits&axis[1] != 0 {
			c.skip(angle)
		}
	}
	if !f.fitz() {
		return
	}
	for _, bit := range []uint32{uAlpha, uScale, uFrame2, uModel2, uLerpFinish} {
		if bits&bit != 0 {
			c.skip(1)
		}
	}
}
