// Package demo reads recorded Quake client demos into an in-memory stream of
// blocks and messages.
//
// A demo file starts with the CD track as an ASCII line, followed by blocks.
// Each block is a little-endian int32 length, the three float32 view angles
// of the recording client, and length bytes of server messages. Messages
// carry no length prefix, so the reader frames them by walking each command
// for the protocol announced in svc_serverinfo.
package demo

import (
	"github.com/vburojevic/demostats/internal/protocol"
)

// Demo is one parsed demo file. It is never modified after Read returns.
type Demo struct {
	// Protocol is the version from the first svc_serverinfo or svc_version,
	// or 0 when neither was recorded.
	Protocol      uint32
	ProtocolFlags uint32
	CDTrack       int
	Blocks        []Block
	// Digest is the blake3 hash of the bytes read from the input, before
	// decompression.
	Digest [32]byte
}

// Block is one recorded server packet.
type Block struct {
	ViewAngles [3]float32
	Messages   []Message
}

// Message is one server message. Data excludes the command byte.
type Message struct {
	Type protocol.MessageType
	Data []byte
}

// Size is the payload length.
func (m Message) Size() int {
	return len(m.Data)
}

// MessageCount returns the number of messages over all blocks.
func (d *Demo) MessageCount() int {
	n := 0
	for _, b := range d.Blocks {
		n += len(b.Messages)
	}
	return n
}
