package stats

import (
	"github.com/vburojevic/demostats/internal/demo"
	"github.com/vburojevic/demostats/internal/protocol"
)

// TimeInfo holds server times in seconds. Zero means the event was not
// recorded.
type TimeInfo struct {
	Start float32 `json:"start"`
	Exit  float32 `json:"exit"`
}

// Duration returns Exit-Start, and false when the demo has no exit after
// its start.
func (t TimeInfo) Duration() (float32, bool) {
	if t.Exit > t.Start {
		return t.Exit - t.Start, true
	}
	return 0, false
}

type timeHandler struct {
	info    TimeInfo
	started bool
	last    *protocol.Time
}

func (h *timeHandler) Types() []protocol.MessageType {
	return []protocol.MessageType{protocol.SvcTime, protocol.SvcIntermission}
}

func (h *timeHandler) Handle(msg protocol.Message) error {
	switch m := msg.(type) {
	case protocol.Time:
		if !h.started {
			h.info.Start = m.Seconds
			h.started = true
		}
		h.last = &m
	case protocol.Intermission:
		// Intermission carries no time of its own; it happens at the most
		// recent server time. Before any time message there is nothing to
		// take, so it is ignored.
		if h.last != nil {
			h.info.Exit = h.last.Seconds
		}
	}
	return nil
}

// Time returns the first server time and the server time at the last
// intermission.
func Time(d *demo.Demo) (TimeInfo, error) {
	h := &timeHandler{}
	if err := Fold(d, h); err != nil {
		return TimeInfo{}, err
	}
	return h.info, nil
}
