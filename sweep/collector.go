package sweep

import (
	"github.com/pkg/errors"
	"github.com/wiless/vlib"
)

// Series holds the (distance, loss) samples of one model in sweep order.
type Series struct {
	Name string
	X    vlib.VectorF `json:"DistanceM"`
	Y    vlib.VectorF `json:"LossDb"`
}

func (s Series) Len() int { return s.X.Size() }

func (s Series) clone() Series {
	return Series{
		Name: s.Name,
		X:    append(vlib.VectorF(nil), s.X...),
		Y:    append(vlib.VectorF(nil), s.Y...),
	}
}

// Collector accumulates named series. It is append-only until Flush seals it.
type Collector struct {
	order   []string
	series  map[string]*Series
	flushed []Series
}

func NewCollector(names ...string) (*Collector, error) {
	c := &Collector{series: make(map[string]*Series, len(names))}
	for _, name := range names {
		if _, ok := c.series[name]; ok {
			return nil, errors.Wrapf(ErrDuplicateSeries, "%q", name)
		}
		c.series[name] = &Series{Name: name}
		c.order = append(c.order, name)
	}
	return c, nil
}

func (c *Collector) Append(name string, x, y float64) error {
	if c.Sealed() {
		return ErrFlushed
	}
	s, ok := c.series[name]
	if !ok {
		return errors.Wrapf(ErrUnknownSeries, "%q", name)
	}
	s.X.AppendAtEnd(x)
	s.Y.AppendAtEnd(y)
	return nil
}

// Len returns the number of samples held for name, or -1 for unknown series.
func (c *Collector) Len(name string) int {
	s, ok := c.series[name]
	if !ok {
		return -1
	}
	return s.Len()
}

func (c *Collector) Names() []string {
	return append([]string(nil), c.order...)
}

func (c *Collector) Sealed() bool { return c.flushed != nil }

// Flush seals the collector and returns copies of all series in creation
// order. Later calls return the same content.
func (c *Collector) Flush() []Series {
	if c.flushed == nil {
		c.flushed = make([]Series, 0, len(c.order))
		for _, name := range c.order {
			c.flushed = append(c.flushed, c.series[name].clone())
		}
	}
	result := make([]Series, len(c.flushed))
	for i, s := range c.flushed {
		result[i] = s.clone()
	}
	return result
}
