package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/demostats/internal/domain"
	"github.com/vburojevic/demostats/internal/stats"
)

func decodeLine(t *testing.T, dec *json.Decoder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, dec.Decode(&m))
	return m
}

func sampleReport() *domain.DemoReport {
	return domain.NewDemoReport("e1m1.dem", 15, 42, [32]byte{1}, stats.Stats{
		Monsters: stats.Counter{Count: 5, Total: 7},
		Secrets:  stats.Counter{Count: 1, Total: 3},
		Map:      stats.MapInfo{Name: "maps/e1m1.bsp", Title: "the Slipgate Complex"},
		Time:     stats.TimeInfo{Start: 1.5, Exit: 100},
	})
}

func TestNDJSONBatch(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.WriteReport(sampleReport()))
	require.NoError(t, w.WriteFailure(domain.NewDemoFailure(domain.CodeOpenFailed, "gone.dem", "file not found")))
	require.NoError(t, w.Close(&domain.BatchSummary{Type: "batch_summary", SchemaVersion: SchemaVersion, Demos: 1, Failed: 1}))

	dec := json.NewDecoder(buf)

	m := decodeLine(t, dec)
	require.Equal(t, "demo", m["type"])
	require.EqualValues(t, 1, m["schemaVersion"])
	require.Equal(t, "e1m1.dem", m["file"])
	require.Equal(t, "maps/e1m1.bsp", m["map"])
	require.EqualValues(t, 5, m["kills"])
	require.EqualValues(t, 7, m["monsters"])
	require.EqualValues(t, 98.5, m["duration"])
	require.Len(t, m["blake3"], 64)

	m = decodeLine(t, dec)
	require.Equal(t, "error", m["type"])
	require.Equal(t, "OPEN_FAILED", m["code"])
	require.Equal(t, "gone.dem", m["file"])

	m = decodeLine(t, dec)
	require.Equal(t, "batch_summary", m["type"])
	require.EqualValues(t, 1, m["failed"])
}

func TestNDJSONDurationOmittedWhenNotPositive(t *testing.T) {
	buf := &bytes.Buffer{}
	r := domain.NewDemoReport("a.dem", 15, 1, [32]byte{}, stats.Stats{Time: stats.TimeInfo{Start: 5, Exit: 5}})
	require.NoError(t, NewNDJSONWriter(buf).WriteReport(r))

	m := decodeLine(t, json.NewDecoder(buf))
	require.NotContains(t, m, "duration")
	require.NotContains(t, m, "blake3")
}

func TestWriteError(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewNDJSONWriter(buf).WriteError("INVALID_WHERE", "bad clause", "use field=value"))

	m := decodeLine(t, json.NewDecoder(buf))
	require.Equal(t, "error", m["type"])
	require.Equal(t, "INVALID_WHERE", m["code"])
	require.Equal(t, "bad clause", m["message"])
	require.Equal(t, "use field=value", m["hint"])
}

func TestCBORIsDeterministic(t *testing.T) {
	encode := func() []byte {
		buf := &bytes.Buffer{}
		w, err := NewCBORWriter(buf)
		require.NoError(t, err)
		require.NoError(t, w.WriteReport(sampleReport()))
		return buf.Bytes()
	}

	first := encode()
	require.Equal(t, first, encode())

	var got domain.DemoReport
	require.NoError(t, cbor.Unmarshal(first, &got))
	require.Equal(t, "maps/e1m1.bsp", got.MapName)
	require.Equal(t, 5, got.Kills)
	require.NotNil(t, got.Duration)
	require.InDelta(t, 98.5, *got.Duration, 1e-6)
}

func TestNewUnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{})
	require.Error(t, err)

	for _, f := range []string{"", "text", "ndjson", "cbor", "table"} {
		w, err := New(f, &bytes.Buffer{})
		require.NoError(t, err, f)
		require.NotNil(t, w, f)
	}
}
