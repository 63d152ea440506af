package stats

import (
	"github.com/vburojevic/demostats/internal/demo"
	"github.com/vburojevic/demostats/internal/protocol"
)

// MapInfo identifies the level played.
type MapInfo struct {
	// Name is the world model path, e.g. "maps/e1m1.bsp".
	Name  string `json:"name"`
	Title string `json:"title"`
}

type mapHandler struct {
	info MapInfo
}

func (h *mapHandler) Types() []protocol.MessageType {
	return []protocol.MessageType{protocol.SvcServerInfo}
}

func (h *mapHandler) Handle(msg protocol.Message) error {
	si := msg.(protocol.ServerInfo)
	h.info = MapInfo{Name: si.Map, Title: si.Title}
	return SkipRest
}

// Map returns the level from the first server info message. Later server
// infos, such as those after a level change, are ignored. Both fields are
// empty when the demo has no server info.
func Map(d *demo.Demo) (MapInfo, error) {
	h := &mapHandler{}
	if err := Fold(d, h); err != nil {
		return MapInfo{}, err
	}
	return h.info, nil
}
