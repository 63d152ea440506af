package protocol

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrShortPayload = errors.New("payload too short")
	ErrUnterminated = errors.New("unterminated string")
)

// DecodeError reports a payload that does not fit its message type.
type DecodeError struct {
	Type MessageType
	Size int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s (%d bytes): %v", e.Type, e.Size, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Message is a decoded server message. The concrete type is one of
// KilledMonster, FoundSecret, ServerInfo, UpdateStat, Time, Intermission
// or Other.
type Message interface {
	MessageType() MessageType
}

// KilledMonster is the svc_killedmonster event. It has no payload.
type KilledMonster struct{}

// FoundSecret is the svc_foundsecret event. It has no payload.
type FoundSecret struct{}

// Intermission marks the end-of-level intermission. It has no payload.
type Intermission struct{}

// UpdateStat sets one client stat to an absolute value.
type UpdateStat struct {
	Index uint8
	Value int32
}

// Time is the server time stamp of the following messages, in seconds.
type Time struct {
	Seconds float32
}

// ServerInfo identifies the session. Map is the first entry of the model
// precache list, which the engine reserves for the world bsp.
type ServerInfo struct {
	Protocol   uint32
	Flags      uint32
	MaxClients uint8
	GameType   uint8
	Title      string
	Map        string
}

// Other carries any message type the statistics do not interpret.
type Other struct {
	Type MessageType
}

func (KilledMonster) MessageType() MessageType { return SvcKilledMonster }
func (FoundSecret) MessageType() MessageType   { return SvcFoundSecret }
func (Intermission) MessageType() MessageType  { return SvcIntermission }
func (UpdateStat) MessageType() MessageType    { return SvcUpdateStat }
func (Time) MessageType() MessageType          { return SvcTime }
func (ServerInfo) MessageType() MessageType    { return SvcServerInfo }
func (o Other) MessageType() MessageType       { return o.Type }

// Decode interprets data as the payload of a message of type t. Payloads
// that are too short for their type are rejected instead of read past.
func Decode(t MessageType, data []byte) (Message, error) {
	switch t {
	case SvcKilledMonster:
		return KilledMonster{}, nil
	case SvcFoundSecret:
		return FoundSecret{}, nil
	case SvcIntermission:
		return Intermission{}, nil
	case SvcUpdateStat:
		return DecodeUpdateStat(data)
	case SvcTime:
		return DecodeTime(data)
	case SvcServerInfo:
		return DecodeServerInfo(data)
	}
	return Other{Type: t}, nil
}

// DecodeUpdateStat decodes a one byte stat index followed by a long value.
func DecodeUpdateStat(data []byte) (UpdateStat, error) {
	if len(data) < 5 {
		return UpdateStat{}, &DecodeError{Type: SvcUpdateStat, Size: len(data), Err: ErrShortPayload}
	}
	return UpdateStat{Index: data[0], Value: Long(data[1:5])}, nil
}

// DecodeTime decodes the float time stamp.
func DecodeTime(data []byte) (Time, error) {
	if len(data) < 4 {
		return Time{}, &DecodeError{Type: SvcTime, Size: len(data), Err: ErrShortPayload}
	}
	return Time{Seconds: Float(data[:4])}, nil
}

// serverInfoHeader is protocol(4) + maxclients(1) + gametype(1).
const serverInfoHeader = 6

// DecodeServerInfo decodes the fixed header, the level title and the world
// model name. The remaining precache lists are left undecoded.
func DecodeServerInfo(data []byte) (ServerInfo, error) {
	fail := func(err error) (ServerInfo, error) {
		return ServerInfo{}, &DecodeError{Type: SvcServerInfo, Size: len(data), Err: err}
	}

	if len(data) < serverInfoHeader {
		return fail(ErrShortPayload)
	}
	info := ServerInfo{Protocol: uint32(Long(data[0:4]))}
	rest := data[4:]
	if info.Protocol == ProtocolRMQ {
		// 999 carries a flags long before maxclients, so its fixed header
		// is 10 bytes rather than 6.
		if len(rest) < 4+2 {
			return fail(ErrShortPayload)
		}
		info.Flags = uint32(Long(rest[0:4]))
		rest = rest[4:]
	}
	info.MaxClients = rest[0]
	info.GameType = rest[1]
	rest = rest[2:]

	title, rest, err := cstring(rest)
	if err != nil {
		return fail(err)
	}
	info.Title = title

	world, _, err := cstring(rest)
	if err != nil {
		return fail(err)
	}
	info.Map = world
	return info, nil
}

// cstring splits a null-terminated string off the front of b.
func cstring(b []byte) (string, []byte, error) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return "", nil, ErrUnterminated
	}
	return string(b[:i]), b[i+1:], nil
}
