package nvidia

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/flavioheleno/ddcedid"
)

// Source enumerates the connected outputs of every NVIDIA GPU.
type Source struct {
	lib Library
	log zerolog.Logger
}

// NewSource returns a Source over lib. logger can be nil.
func NewSource(lib Library, logger *zerolog.Logger) *Source {
	s := &Source{lib: lib, log: zerolog.Nop()}
	if logger != nil {
		s.log = logger.With().Str("source", "nvidia").Logger()
	}
	return s
}

// Name implements ddcedid.Source.
func (s *Source) Name() string {
	return "nvidia"
}

// Candidates returns one candidate per connected output bit of every GPU.
func (s *Source) Candidates() ([]ddcedid.Candidate, error) {
	gpus, err := s.lib.PhysicalGPUs()
	if err != nil {
		return nil, fmt.Errorf("nvidia: physical gpus: %w", err)
	}

	var candidates []ddcedid.Candidate

	for _, gpu := range gpus {
		outputs, err := s.lib.ConnectedOutputs(gpu)
		if err != nil {
			s.log.Debug().Err(err).Uint64("gpu", uint64(gpu)).Msg("output enumeration failed")
			continue
		}

		for i := 0; i < MaxOutputs; i++ {
			mask := uint32(1) << i
			if outputs&mask == 0 {
				continue
			}
			candidates = append(candidates, ddcedid.Candidate{
				Identity: ddcedid.Identity{
					Vendor: ddcedid.VendorNvidia,
					GPU:    uint64(gpu),
					Output: mask,
				},
				Transport: NewTransport(s.lib, gpu, mask),
			})
		}
	}

	return candidates, nil
}
