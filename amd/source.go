package amd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/flavioheleno/ddcedid"
)

// Source enumerates the displays of every AMD adapter.
type Source struct {
	lib Library
	log zerolog.Logger
}

// NewSource returns a Source over lib. logger can be nil.
func NewSource(lib Library, logger *zerolog.Logger) *Source {
	s := &Source{lib: lib, log: zerolog.Nop()}
	if logger != nil {
		s.log = logger.With().Str("source", "amd").Logger()
	}
	return s
}

// Name implements ddcedid.Source.
func (s *Source) Name() string {
	return "amd"
}

// Candidates returns one candidate per display of every distinct adapter.
// Adapters sharing a driver path with an earlier one are skipped.
func (s *Source) Candidates() ([]ddcedid.Candidate, error) {
	adapters, err := s.lib.Adapters()
	if err != nil {
		return nil, fmt.Errorf("amd: adapters: %w", err)
	}

	var candidates []ddcedid.Candidate
	seen := make(map[string]bool)

	for _, a := range adapters {
		if seen[a.DriverPathExt] {
			continue
		}
		seen[a.DriverPathExt] = true

		displays, err := s.lib.Displays(a.Index)
		if err != nil {
			s.log.Debug().Err(err).Int("adapter", a.Index).Msg("display enumeration failed")
			continue
		}

		for _, d := range displays {
			candidates = append(candidates, ddcedid.Candidate{
				Identity: ddcedid.Identity{
					Vendor: ddcedid.VendorAMD,
					GPU:    uint64(a.Index),
					Output: uint32(d.LogicalIndex),
				},
				Transport: NewTransport(s.lib, a.Index, d.LogicalIndex),
			})
		}
	}

	return candidates, nil
}
