package ddcedid

import (
	"fmt"

	"github.com/flavioheleno/ddcedid/descriptor"
)

// Recorder keeps the descriptor a display held before Program overwrote it.
type Recorder interface {
	Record(id Identity, addr byte, snapshot *descriptor.Buffer) error
}

// Result describes how Program reached the display.
type Result struct {
	Unchanged bool // the display already held the data, nothing was written
	SlowRetry bool // the fast write did not verify and ModeSlow was used
}

// Program writes data to addr and verifies it by reading it back.
//
// The descriptor is read first and nothing is written when it already
// matches data. Otherwise the snapshot goes to the Recorder, if any, and
// data is written in ModeFast. A read-back equal to the snapshot fails with
// ErrWriteProtected. A read-back that differs from data is written again in
// ModeSlow and a second mismatch fails with ErrVerify.
func (d *Display) Program(addr byte, data *descriptor.Buffer) (Result, error) {
	var res Result
	op := fmt.Sprintf("program 0x%02X", addr)

	if data.Empty() {
		return res, &Error{Kind: KindFormat, Op: op, Err: descriptor.ErrEmpty}
	}

	before, err := d.read(addr)
	if err != nil {
		return res, err
	}

	if data.Matches(before) {
		d.log.Info().Msg("descriptor unchanged, nothing to write")
		res.Unchanged = true
		return res, nil
	}

	if d.rec != nil {
		if err := d.rec.Record(d.id, addr, before); err != nil {
			return res, &Error{Kind: KindIO, Op: op, Err: fmt.Errorf("record snapshot: %w", err)}
		}
	}

	if err := d.ch.Write(addr, before, data, ModeFast); err != nil {
		return res, err
	}

	after, err := d.read(addr)
	if err != nil {
		return res, err
	}

	if after.Equal(before) {
		d.log.Warn().Msg("read-back equals the previous descriptor")
		return res, &Error{Kind: KindWriteProtected, Op: op, Err: ErrWriteProtected}
	}

	if after.Matches(data) {
		d.log.Info().Msg("descriptor written")
		return res, nil
	}

	d.log.Warn().Msg("fast write did not verify, retrying byte by byte")
	res.SlowRetry = true

	if err := d.ch.Write(addr, after, data, ModeSlow); err != nil {
		return res, err
	}

	after, err = d.read(addr)
	if err != nil {
		return res, err
	}

	if !after.Matches(data) {
		d.log.Error().Msg("slow write did not verify")
		return res, &Error{Kind: KindVerify, Op: op, Err: ErrVerify}
	}

	d.log.Info().Msg("descriptor written byte by byte")
	return res, nil
}
