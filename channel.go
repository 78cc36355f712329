package ddcedid

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/flavioheleno/ddcedid/descriptor"
)

// Mode selects the write granularity.
type Mode int

const (
	ModeFast Mode = iota // 8-byte windows
	ModeSlow             // single bytes
)

func (m Mode) String() string {
	if m == ModeSlow {
		return "slow"
	}
	return "fast"
}

// ParseMode parses "fast" or "slow".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast", "":
		return ModeFast, nil
	case "slow":
		return ModeSlow, nil
	}
	return 0, fmt.Errorf("ddcedid: unknown write mode %q", s)
}

func (m Mode) window() int {
	if m == ModeSlow {
		return 1
	}
	return 8
}

// Opts is the configuration of a Channel and of the displays and catalogs
// built on top of it.
type Opts struct {
	// Retry policy
	Attempts   int           // Tries per write command (default: 10)
	RetryDelay time.Duration // Pause between failed tries (default: 10ms)

	// Device timing
	SettleDelay time.Duration // Pause after a pointer write or a successful command (default: 10ms)

	// Optional collaborators
	Logger   *zerolog.Logger     // Nil disables logging
	Recorder Recorder            // Receives pre-write snapshots in Display.Program
	Sleep    func(time.Duration) // Replaces time.Sleep, mostly for tests
}

// DefaultOpts returns the timing the DDC channel needs on common hardware.
func DefaultOpts() Opts {
	return Opts{
		Attempts:    10,
		RetryDelay:  10 * time.Millisecond,
		SettleDelay: 10 * time.Millisecond,
	}
}

func (o *Opts) validate() error {
	if o.Attempts < 1 {
		return errors.New("ddcedid: attempts must be at least 1")
	}
	if o.RetryDelay < 0 || o.SettleDelay < 0 {
		return errors.New("ddcedid: delays must not be negative")
	}
	return nil
}

func (o *Opts) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// Channel reads and writes whole descriptors through a Transport.
type Channel struct {
	t Transport

	attempts    int
	retryDelay  time.Duration
	settleDelay time.Duration

	sleep func(time.Duration)
	log   zerolog.Logger
}

// NewChannel wraps t with the retry and timing policy in opts.
//
// opts can be nil to use DefaultOpts.
func NewChannel(t Transport, opts *Opts) (*Channel, error) {
	if t == nil {
		return nil, errors.New("ddcedid: nil transport")
	}

	if opts == nil {
		def := DefaultOpts()
		opts = &def
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	c := &Channel{
		t:           t,
		attempts:    opts.Attempts,
		retryDelay:  opts.RetryDelay,
		settleDelay: opts.SettleDelay,
		sleep:       opts.Sleep,
		log:         opts.logger(),
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}

	return c, nil
}

// Read returns the descriptor stored at addr, trimmed to its reported size.
func (c *Channel) Read(addr byte) (*descriptor.Buffer, error) {
	op := fmt.Sprintf("read 0x%02X", addr)

	// Set the word offset to zero before reading
	if err := c.t.WriteBytes([]byte{addr, 0x00}); err != nil {
		return nil, &Error{Kind: KindIO, Op: op, Err: err}
	}
	c.sleep(c.settleDelay)

	data, err := c.t.ReadBytes(addr+1, descriptor.MaxSize)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: op, Err: err}
	}

	b := descriptor.New(data)
	c.log.Debug().
		Str("addr", fmt.Sprintf("0x%02X", addr)).
		Int("read", len(data)).
		Int("size", b.Len()).
		Msg("descriptor read")

	return b, nil
}

// Write sends the bytes of data that differ from old to the device at addr.
// old is what the display is believed to hold and may be nil, in which case
// everything is written.
func (c *Channel) Write(addr byte, old, data *descriptor.Buffer, mode Mode) error {
	op := fmt.Sprintf("write 0x%02X", addr)

	if data.Empty() {
		return &Error{Kind: KindFormat, Op: op, Err: descriptor.ErrEmpty}
	}

	cmds := Commands(addr, old.Bytes(), data.Bytes(), mode)
	c.log.Debug().
		Str("addr", fmt.Sprintf("0x%02X", addr)).
		Stringer("mode", mode).
		Int("commands", len(cmds)).
		Msg("descriptor write")

	for _, cmd := range cmds {
		if err := c.send(cmd); err != nil {
			return &Error{Kind: KindIO, Op: op, Err: err}
		}
	}

	return nil
}

// send transmits one command, retrying on failure.
func (c *Channel) send(cmd []byte) error {
	var err error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err = c.t.WriteBytes(cmd); err == nil {
			c.sleep(c.settleDelay)
			return nil
		}

		c.log.Debug().
			Err(err).
			Int("offset", int(cmd[1])).
			Int("attempt", attempt).
			Msg("write command failed")

		if attempt < c.attempts {
			c.sleep(c.retryDelay)
		}
	}

	return fmt.Errorf("offset 0x%02X failed after %d attempts: %w", cmd[1], c.attempts, err)
}

// Commands returns the write commands that turn old into data, in the order
// Write sends them: windows are visited from the highest offset down to 0,
// and a window is skipped when it lies within old and is unchanged. Each
// command is [addr, offset, bytes...].
func Commands(addr byte, old, data []byte, mode Mode) [][]byte {
	if len(data) == 0 {
		return nil
	}

	step := mode.window()
	var cmds [][]byte

	for offset := (len(data) - 1) / step * step; offset >= 0; offset -= step {
		end := min(offset+step, len(data))

		if offset < len(old) && bytes.Equal(data[offset:end], old[offset:min(end, len(old))]) {
			continue
		}

		cmd := make([]byte, 0, 2+end-offset)
		cmd = append(cmd, addr, byte(offset))
		cmd = append(cmd, data[offset:end]...)
		cmds = append(cmds, cmd)
	}

	return cmds
}
