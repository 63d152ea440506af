package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/demostats/internal/domain"
	"github.com/vburojevic/demostats/internal/stats"
)

func TestTextReportLayout(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTextWriter(buf)
	require.NoError(t, w.WriteReport(sampleReport()))

	want := "demo:       e1m1.dem\n" +
		"protocol:   15\n" +
		"map bsp:    maps/e1m1.bsp\n" +
		"map title:  the Slipgate Complex\n" +
		"kills:      5/7\n" +
		"secrets:    1/3\n" +
		"start time: 1.500000\n" +
		"exit time:  100.000000\n" +
		"duration:   98.500000\n"
	assert.Equal(t, want, buf.String())
}

func TestTextBlankDuration(t *testing.T) {
	buf := &bytes.Buffer{}
	r := domain.NewDemoReport("x.dem", 666, 0, [32]byte{}, stats.Stats{})
	require.NoError(t, NewTextWriter(buf).WriteReport(r))

	assert.True(t, strings.HasSuffix(buf.String(), "exit time:  0.000000\nduration:   \n"))
	assert.Contains(t, buf.String(), "kills:      0/0\n")
	assert.Contains(t, buf.String(), "map bsp:    \n")
}

func TestTextSeparatesOutputs(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTextWriter(buf)

	require.NoError(t, w.WriteFailure(domain.NewDemoFailure(domain.CodeOpenFailed, "missing.dem", "file not found")))
	require.NoError(t, w.WriteReport(sampleReport()))
	require.NoError(t, w.WriteFailure(domain.NewDemoFailure(domain.CodeDecodeFailed, "bad.dem", "short payload")))
	require.NoError(t, w.Close(nil))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "demo missing.dem not opened: file not found\n\ndemo:       e1m1.dem\n"))
	assert.True(t, strings.HasSuffix(out, "duration:   98.500000\n\ndemo bad.dem not processed: short payload\n"))
}

func TestTableWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTableWriter(buf)

	require.NoError(t, w.WriteReport(sampleReport()))
	require.NoError(t, w.WriteFailure(domain.NewDemoFailure(domain.CodeOpenFailed, "gone.dem", "file not found")))
	assert.Zero(t, buf.Len(), "table renders only on close")

	require.NoError(t, w.Close(&domain.BatchSummary{
		Kills: 5, Monsters: 7, Secrets: 1, SecretsTotal: 3, TotalTime: 98.5,
		Duplicates: map[string]int{"z.dem": 2, "e1m1.dem": 3},
	}))

	out := buf.String()
	assert.Contains(t, out, "e1m1.dem")
	assert.Contains(t, out, "maps/e1m1.bsp")
	assert.Contains(t, out, "5/7")
	assert.Contains(t, out, "98.500000")
	assert.True(t, strings.HasSuffix(out,
		"gone.dem: file not found (OPEN_FAILED)\n"+
			"e1m1.dem: 3 copies (DUPLICATE)\n"+
			"z.dem: 2 copies (DUPLICATE)\n"), out)
}
