package i2cdev

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/flavioheleno/ddcedid"
)

// unnumbered marks the identity of buses without an OS bus number, such
// as USB adapters. The low bits hold the bus position in the registry.
const unnumbered = 1 << 32

// Opts is the configuration for a Source.
type Opts struct {
	// Bus selection
	Buses []string // Names, aliases or numbers to scan (default: every bus)

	// Bus clock
	Speed physic.Frequency // Applied to every opened bus, 0 keeps the current speed

	Logger *zerolog.Logger // Nil disables logging
}

// Source enumerates the registered I²C buses as display candidates.
type Source struct {
	opts  Opts
	refs  func() []*i2creg.Ref
	buses []i2c.BusCloser
	log   zerolog.Logger
}

// NewSource initializes the periph.io host drivers and returns a Source
// over the buses they registered.
//
// opts can be nil to scan every bus at its current speed.
func NewSource(opts *Opts) (*Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("i2cdev: host init: %w", err)
	}
	return newSource(i2creg.All, opts), nil
}

func newSource(refs func() []*i2creg.Ref, opts *Opts) *Source {
	s := &Source{refs: refs, log: zerolog.Nop()}
	if opts != nil {
		s.opts = *opts
		if opts.Logger != nil {
			s.log = *opts.Logger
		}
	}
	return s
}

// Name implements ddcedid.Source.
func (s *Source) Name() string {
	return "i2c-dev"
}

// Candidates opens every selected bus and returns one candidate per bus.
// Buses opened by a previous call are closed first.
func (s *Source) Candidates() ([]ddcedid.Candidate, error) {
	if err := s.Close(); err != nil {
		s.log.Warn().Err(err).Msg("closing previous buses")
	}

	var (
		candidates []ddcedid.Candidate
		errs       []error
	)

	for i, ref := range s.refs() {
		if !s.selected(ref) {
			continue
		}

		bus, err := ref.Open()
		if err != nil {
			s.log.Debug().Err(err).Str("bus", ref.Name).Msg("open failed")
			errs = append(errs, fmt.Errorf("%s: %w", ref.Name, err))
			continue
		}

		if s.opts.Speed > 0 {
			if err := bus.SetSpeed(s.opts.Speed); err != nil {
				s.log.Warn().Err(err).Str("bus", ref.Name).Stringer("speed", s.opts.Speed).Msg("set speed failed")
			}
		}

		s.buses = append(s.buses, bus)
		candidates = append(candidates, ddcedid.Candidate{
			Identity:  identity(ref, i),
			Transport: New(bus),
		})
	}

	if len(candidates) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("i2cdev: no usable bus: %w", errors.Join(errs...))
	}

	return candidates, nil
}

// Close closes every bus opened by Candidates.
func (s *Source) Close() error {
	var errs []error
	for _, bus := range s.buses {
		if err := bus.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.buses = nil
	return errors.Join(errs...)
}

func (s *Source) selected(ref *i2creg.Ref) bool {
	if len(s.opts.Buses) == 0 {
		return true
	}
	for _, name := range s.opts.Buses {
		if name == ref.Name || slices.Contains(ref.Aliases, name) {
			return true
		}
		if ref.Number >= 0 && name == strconv.Itoa(ref.Number) {
			return true
		}
	}
	return false
}

func identity(ref *i2creg.Ref, position int) ddcedid.Identity {
	id := ddcedid.Identity{Vendor: ddcedid.VendorI2CDev}
	if ref.Number >= 0 {
		id.GPU = uint64(ref.Number)
	} else {
		id.GPU = unnumbered | uint64(position)
	}
	return id
}
