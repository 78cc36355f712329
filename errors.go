package ddcedid

import (
	"errors"
	"fmt"

	"github.com/flavioheleno/ddcedid/descriptor"
)

// Kind classifies failures so callers can pick the right message or retry
// prompt without matching on error text.
type Kind int

const (
	KindIO             Kind = iota + 1 // transport call failed
	KindFormat                         // unusable descriptor data
	KindWriteProtected                 // display ignored a write
	KindVerify                         // read-back differs from written data
	KindUnsupported                    // vendor backend unavailable
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "i/o"
	case KindFormat:
		return "format"
	case KindWriteProtected:
		return "write-protected"
	case KindVerify:
		return "verify"
	case KindUnsupported:
		return "unsupported"
	}
	return "unknown"
}

var (
	ErrWriteProtected = errors.New("display is write-protected")
	ErrVerify         = errors.New("read-back does not match written data")
)

// Error is returned by Channel, Display and Catalog operations.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ddcedid: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err. Errors that did not originate here are
// classified by the sentinels they wrap, defaulting to KindIO.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	switch {
	case errors.Is(err, ErrWriteProtected):
		return KindWriteProtected
	case errors.Is(err, ErrVerify):
		return KindVerify
	case errors.Is(err, errors.ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, descriptor.ErrTooShort),
		errors.Is(err, descriptor.ErrOutOfRange),
		errors.Is(err, descriptor.ErrEmpty),
		errors.Is(err, descriptor.ErrUnrecognized):
		return KindFormat
	}

	return KindIO
}
