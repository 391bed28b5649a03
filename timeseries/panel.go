package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDuplicateObservation is returned when two rows share an entity code and year.
var ErrDuplicateObservation = errors.New("duplicate observation for entity and year")

// Observation is one (entity, year) row of a metric table. A missing value is NaN.
type Observation struct {
	EntityCode int
	EntityName string
	Year       int
	Value      float64
}

// EntityKey identifies an entity group.
type EntityKey struct {
	Code int
	Name string
}

// EntitySeries holds the observed points of one entity, ascending by year.
// Rows with a missing value are not part of Years/Values.
type EntitySeries struct {
	Key      EntityKey
	Years    []int
	Values   []float64
	LastYear int // last observed year, or last row year when nothing was observed
}

// Len returns the number of observed points.
func (e *EntitySeries) Len() int {
	return len(e.Values)
}

// Series returns the entity as a Series sharing no memory with e.
func (e *EntitySeries) Series() *Series {
	s := &Series{
		Years:  make([]int, len(e.Years)),
		Values: make([]float64, len(e.Values)),
		Name:   e.Key.Name,
	}
	copy(s.Years, e.Years)
	copy(s.Values, e.Values)
	return s
}

// Split partitions the observed points into those up to and including
// trainEnd and those after it.
func (e *EntitySeries) Split(trainEnd int) (train, test []float64) {
	idx := sort.SearchInts(e.Years, trainEnd+1)
	train = make([]float64, idx)
	copy(train, e.Values[:idx])
	test = make([]float64, len(e.Values)-idx)
	copy(test, e.Values[idx:])
	return train, test
}

// Panel is a multi-entity table grouped by entity. It is built once per
// request and is read-only afterwards.
type Panel struct {
	entities map[EntityKey]*EntitySeries
	keys     []EntityKey
	years    []int
	maxYear  int
}

// NewPanel groups observations by (entity code, entity name) and sorts every
// group by year.
func NewPanel(rows []Observation) (*Panel, error) {
	p := &Panel{entities: make(map[EntityKey]*EntitySeries)}
	if len(rows) == 0 {
		return p, nil
	}

	type point struct {
		year  int
		value float64
	}
	grouped := make(map[EntityKey][]point)
	seen := make(map[[2]int]struct{}, len(rows))
	distinct := make(map[int]struct{})
	p.maxYear = rows[0].Year

	for _, r := range rows {
		id := [2]int{r.EntityCode, r.Year}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: entity %d year %d", ErrDuplicateObservation, r.EntityCode, r.Year)
		}
		seen[id] = struct{}{}
		distinct[r.Year] = struct{}{}
		if r.Year > p.maxYear {
			p.maxYear = r.Year
		}
		key := EntityKey{Code: r.EntityCode, Name: r.EntityName}
		grouped[key] = append(grouped[key], point{year: r.Year, value: r.Value})
	}

	for key, pts := range grouped {
		sort.Slice(pts, func(i, j int) bool { return pts[i].year < pts[j].year })
		es := &EntitySeries{
			Key:      key,
			LastYear: pts[len(pts)-1].year,
		}
		for _, pt := range pts {
			if math.IsNaN(pt.value) {
				continue
			}
			es.Years = append(es.Years, pt.year)
			es.Values = append(es.Values, pt.value)
		}
		if len(es.Years) > 0 {
			es.LastYear = es.Years[len(es.Years)-1]
		}
		p.entities[key] = es
		p.keys = append(p.keys, key)
	}

	sort.Slice(p.keys, func(i, j int) bool {
		if p.keys[i].Code != p.keys[j].Code {
			return p.keys[i].Code < p.keys[j].Code
		}
		return p.keys[i].Name < p.keys[j].Name
	})

	p.years = make([]int, 0, len(distinct))
	for y := range distinct {
		p.years = append(p.years, y)
	}
	sort.Ints(p.years)

	return p, nil
}

// Len returns the number of entities.
func (p *Panel) Len() int {
	return len(p.keys)
}

// Empty reports whether the panel was built from no rows.
func (p *Panel) Empty() bool {
	return len(p.keys) == 0
}

// MaxYear returns the largest year over all rows, including rows with a
// missing value. It is 0 for an empty panel.
func (p *Panel) MaxYear() int {
	return p.maxYear
}

// Years returns the sorted distinct years present in the table.
func (p *Panel) Years() []int {
	out := make([]int, len(p.years))
	copy(out, p.years)
	return out
}

// Keys returns entity keys in (code, name) order.
func (p *Panel) Keys() []EntityKey {
	out := make([]EntityKey, len(p.keys))
	copy(out, p.keys)
	return out
}

// Entity returns the series for key.
func (p *Panel) Entity(key EntityKey) (*EntitySeries, bool) {
	es, ok := p.entities[key]
	return es, ok
}

// Entities returns all entity series in (code, name) order.
func (p *Panel) Entities() []*EntitySeries {
	out := make([]*EntitySeries, len(p.keys))
	for i, k := range p.keys {
		out[i] = p.entities[k]
	}
	return out
}
