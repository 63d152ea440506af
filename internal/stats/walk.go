// Package stats derives level statistics from a parsed demo.
//
// Each extractor is one forward pass over every message in capture order.
// The passes share the traversal in Walk and only read the demo, so they may
// run concurrently over the same *demo.Demo.
package stats

import (
	"errors"

	"github.com/vburojevic/demostats/internal/demo"
	"github.com/vburojevic/demostats/internal/protocol"
)

// SkipRest can be returned by a visit function to end the walk early
// without an error.
var SkipRest = errors.New("skip remaining messages")

// Walk calls visit for each message of each block in order. It stops at the
// first error visit returns; SkipRest stops the walk and Walk returns nil.
func Walk(d *demo.Demo, visit func(m demo.Message) error) error {
	for _, b := range d.Blocks {
		for _, m := range b.Messages {
			if err := visit(m); err != nil {
				if errors.Is(err, SkipRest) {
					return nil
				}
				return err
			}
		}
	}
	return nil
}

// Handler receives the decoded form of the message types it asked for.
type Handler interface {
	Types() []protocol.MessageType
	Handle(msg protocol.Message) error
}

// Fold walks d and decodes only the message types h subscribes to, so a
// malformed payload of an unrelated type never fails the pass.
func Fold(d *demo.Demo, h Handler) error {
	var want [256]bool
	for _, t := range h.Types() {
		want[t] = true
	}
	return Walk(d, func(m demo.Message) error {
		if !want[m.Type] {
			return nil
		}
		msg, err := protocol.Decode(m.Type, m.Data)
		if err != nil {
			return err
		}
		return h.Handle(msg)
	})
}
