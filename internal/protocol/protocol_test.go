package protocol

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireOrderIsLittleEndian(t *testing.T) {
	assert.Equal(t, int32(0x04030201), Long([]byte{1, 2, 3, 4}))
	assert.Equal(t, int16(-2), Short([]byte{0xfe, 0xff}))
	assert.Equal(t, float32(1), Float([]byte{0x00, 0x00, 0x80, 0x3f}))
}

func TestWireRoundTrip(t *testing.T) {
	longs := [][]byte{
		{0, 0, 0, 0},
		{1, 2, 3, 4},
		{0xff, 0xff, 0xff, 0x7f},
		{0x00, 0x00, 0x00, 0x80},
	}
	for _, in := range longs {
		out := make([]byte, 4)
		PutLong(out, Long(in))
		assert.Equal(t, in, out)

		// Floats convert the bit pattern, so any 4 bytes survive,
		// including NaN payloads.
		PutFloat(out, Float(in))
		assert.Equal(t, in, out)
	}

	shorts := [][]byte{{0, 0}, {0x34, 0x12}, {0xff, 0xff}}
	for _, in := range shorts {
		out := make([]byte, 2)
		PutShort(out, Short(in))
		assert.Equal(t, in, out)
	}

	nan := []byte{0x01, 0x00, 0xc0, 0x7f}
	assert.True(t, math.IsNaN(float64(Float(nan))))
}

func TestDecode(t *testing.T) {
	stat := []byte{StatMonsters, 0x2a, 0, 0, 0}
	msg, err := Decode(SvcUpdateStat, stat)
	require.NoError(t, err)
	assert.Equal(t, UpdateStat{Index: StatMonsters, Value: 42}, msg)

	tm := make([]byte, 4)
	PutFloat(tm, 12.5)
	msg, err = Decode(SvcTime, tm)
	require.NoError(t, err)
	assert.Equal(t, Time{Seconds: 12.5}, msg)

	for _, typ := range []MessageType{SvcKilledMonster, SvcFoundSecret, SvcIntermission} {
		msg, err = Decode(typ, nil)
		require.NoError(t, err)
		assert.Equal(t, typ, msg.MessageType())
	}

	msg, err = Decode(SvcPrint, []byte("hi\x00"))
	require.NoError(t, err)
	assert.Equal(t, Other{Type: SvcPrint}, msg)
}

func TestDecodeServerInfo(t *testing.T) {
	t.Run("netquake", func(t *testing.T) {
		data := []byte{15, 0, 0, 0, 8, 1}
		data = append(data, "the Necropolis\x00maps/e1m3.bsp\x00progs/player.mdl\x00\x00"...)

		si, err := DecodeServerInfo(data)
		require.NoError(t, err)
		assert.Equal(t, ServerInfo{
			Protocol:   ProtocolNetQuake,
			MaxClients: 8,
			GameType:   1,
			Title:      "the Necropolis",
			Map:        "maps/e1m3.bsp",
		}, si)
	})

	t.Run("rmq flags", func(t *testing.T) {
		data := []byte{0xe7, 0x03, 0, 0, 0x10, 0, 0, 0, 1, 0}
		data = append(data, "title\x00maps/start.bsp\x00"...)

		si, err := DecodeServerInfo(data)
		require.NoError(t, err)
		assert.Equal(t, ProtocolRMQ, si.Protocol)
		assert.Equal(t, FlagFloatCoord, si.Flags)
		assert.Equal(t, "maps/start.bsp", si.Map)
	})

	t.Run("empty title and map", func(t *testing.T) {
		si, err := DecodeServerInfo([]byte{15, 0, 0, 0, 1, 0, 0, 0})
		require.NoError(t, err)
		assert.Empty(t, si.Title)
		assert.Empty(t, si.Map)
	})
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		typ  MessageType
		data []byte
		want error
	}{
		{"short stat", SvcUpdateStat, []byte{12, 0, 0}, ErrShortPayload},
		{"short time", SvcTime, []byte{0}, ErrShortPayload},
		{"short server info", SvcServerInfo, []byte{15, 0, 0}, ErrShortPayload},
		{"short rmq server info", SvcServerInfo, []byte{0xe7, 0x03, 0, 0, 0}, ErrShortPayload},
		{"unterminated title", SvcServerInfo, append([]byte{15, 0, 0, 0, 1, 0}, "abc"...), ErrUnterminated},
		{"unterminated map", SvcServerInfo, append([]byte{15, 0, 0, 0, 1, 0}, "abc\x00maps"...), ErrUnterminated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.typ, tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.typ, de.Type)
			assert.Equal(t, len(tt.data), de.Size)
		})
	}
}

func TestMessageTypeString(t *testing.T) {
	assert.Equal(t, "svc_updatestat", SvcUpdateStat.String())
	assert.Equal(t, "svc_killedmonster", SvcKilledMonster.String())
	assert.Equal(t, "fast_update", MessageType(0x81).String())
	assert.Equal(t, "svc_unknown(60)", MessageType(60).String())
	assert.True(t, MessageType(0x80).IsFastUpdate())
	assert.False(t, SvcTime.IsFastUpdate())
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported(ProtocolNetQuake))
	assert.True(t, IsSupported(ProtocolFitzQuake))
	assert.True(t, IsSupported(ProtocolRMQ))
	assert.False(t, IsSupported(16))
}
