package stats

import (
	"github.com/samber/lo"

	"github.com/vburojevic/demostats/internal/demo"
	"github.com/vburojevic/demostats/internal/protocol"
)

// Counter is a reconciled count against its level total, e.g. monsters
// killed out of monsters spawned.
type Counter struct {
	Count int `json:"count"`
	Total int `json:"total"`
}

// Reconcile picks the authoritative count from an event tally and the last
// stat snapshot. Snapshots can lag or restate the events, so the larger
// value wins.
func Reconcile(tally, snapshot int) int {
	return lo.Max([]int{tally, snapshot})
}

// counter tallies one event type and tracks the last snapshot of a count
// stat and a total stat.
type counter struct {
	event     protocol.MessageType
	countStat uint8
	totalStat uint8
	tally     int
	lastCount int
	lastTotal int
}

func (c *counter) Types() []protocol.MessageType {
	return []protocol.MessageType{c.event, protocol.SvcUpdateStat}
}

func (c *counter) Handle(msg protocol.Message) error {
	switch m := msg.(type) {
	case protocol.UpdateStat:
		switch m.Index {
		case c.countStat:
			c.lastCount = int(m.Value)
		case c.totalStat:
			c.lastTotal = int(m.Value)
		}
	default:
		if msg.MessageType() == c.event {
			c.tally++
		}
	}
	return nil
}

func (c *counter) result() Counter {
	return Counter{Count: Reconcile(c.tally, c.lastCount), Total: c.lastTotal}
}

func count(d *demo.Demo, c *counter) (Counter, error) {
	if err := Fold(d, c); err != nil {
		return Counter{}, err
	}
	return c.result(), nil
}

// Monsters returns monsters killed and the level's monster total.
func Monsters(d *demo.Demo) (Counter, error) {
	return count(d, &counter{
		event:     protocol.SvcKilledMonster,
		countStat: protocol.StatMonsters,
		totalStat: protocol.StatTotalMonsters,
	})
}

// Secrets returns secrets found and the level's secret total.
func Secrets(d *demo.Demo) (Counter, error) {
	return count(d, &counter{
		event:     protocol.SvcFoundSecret,
		countStat: protocol.StatSecrets,
		totalStat: protocol.StatTotalSecrets,
	})
}
