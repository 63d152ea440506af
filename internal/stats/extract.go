package stats

import (
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/demostats/internal/demo"
)

// Stats is everything extracted from one demo.
type Stats struct {
	Monsters Counter  `json:"monsters"`
	Secrets  Counter  `json:"secrets"`
	Map      MapInfo  `json:"map"`
	Time     TimeInfo `json:"time"`
}

// Extract runs all passes over d. The passes are independent reads of the
// same demo and run concurrently; the first failing pass decides the error.
func Extract(d *demo.Demo) (Stats, error) {
	var (
		s Stats
		g errgroup.Group
	)
	g.Go(func() (err error) {
		s.Monsters, err = Monsters(d)
		return err
	})
	g.Go(func() (err error) {
		s.Secrets, err = Secrets(d)
		return err
	})
	g.Go(func() (err error) {
		s.Map, err = Map(d)
		return err
	})
	g.Go(func() (err error) {
		s.Time, err = Time(d)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return s, nil
}
