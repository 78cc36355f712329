package ddcedid

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// Candidate is an output a Source can reach. It becomes a Display once its
// EDID has been read.
type Candidate struct {
	Identity  Identity
	Transport Transport
}

// Source enumerates the outputs of one backend.
type Source interface {
	Name() string
	Candidates() ([]Candidate, error)
}

// Catalog is the ordered list of displays reachable through its sources.
type Catalog struct {
	sources []Source
	opts    *Opts
	log     zerolog.Logger

	displays []*Display
}

// NewCatalog returns an empty catalog. Call Load to populate it.
//
// opts can be nil to use DefaultOpts.
func NewCatalog(sources []Source, opts *Opts) *Catalog {
	if opts == nil {
		def := DefaultOpts()
		opts = &def
	}
	return &Catalog{
		sources: slices.Clone(sources),
		opts:    opts,
		log:     opts.logger(),
	}
}

// Load replaces the catalog content with the displays that answer an EDID
// read. Candidates whose initial read fails and repeated identities are dropped.
// The result is sorted by Display.Less, keeping enumeration order for ties.
// Load fails only when every source failed to enumerate.
func (c *Catalog) Load() error {
	var (
		displays []*Display
		errs     []error
	)

	seen := make(map[Identity]bool)

	for _, src := range c.sources {
		candidates, err := src.Candidates()
		if err != nil {
			c.log.Warn().Err(err).Str("source", src.Name()).Msg("enumeration failed")
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}

		for _, cand := range candidates {
			if seen[cand.Identity] {
				continue
			}

			d, err := NewDisplay(cand.Identity, cand.Transport, c.opts)
			if err != nil {
				c.log.Debug().Err(err).Stringer("display", cand.Identity).Msg("initial read failed")
				continue
			}

			seen[cand.Identity] = true
			displays = append(displays, d)
		}
	}

	slices.SortStableFunc(displays, func(a, b *Display) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})

	c.displays = displays
	c.log.Debug().Int("displays", len(displays)).Msg("catalog loaded")

	if len(c.sources) > 0 && len(errs) == len(c.sources) {
		return &Error{Kind: KindIO, Op: "load catalog", Err: errors.Join(errs...)}
	}

	return nil
}

// Len returns the number of displays.
func (c *Catalog) Len() int {
	return len(c.displays)
}

// Get returns display i, or nil when i is out of range.
func (c *Catalog) Get(i int) *Display {
	if i < 0 || i >= len(c.displays) {
		return nil
	}
	return c.displays[i]
}

// Set replaces display i with d, which must have the same identity.
func (c *Catalog) Set(i int, d *Display) error {
	if i < 0 || i >= len(c.displays) {
		return fmt.Errorf("ddcedid: display index %d out of range", i)
	}
	if !c.displays[i].Equal(d) {
		return fmt.Errorf("ddcedid: display %s does not match %s", d.Identity(), c.displays[i].Identity())
	}
	c.displays[i] = d
	return nil
}

// Displays returns the displays in catalog order.
func (c *Catalog) Displays() []*Display {
	return slices.Clone(c.displays)
}

// Find returns the display with the given identity.
func (c *Catalog) Find(id Identity) (*Display, bool) {
	for _, d := range c.displays {
		if d.id == id {
			return d, true
		}
	}
	return nil, false
}
