package ddcedid

// Device addresses of the descriptors on the DDC bus, in 8-bit form.
const (
	AddressEDID      byte = 0xA0
	AddressDisplayID byte = 0xA4
)

// Transport moves raw bytes over one display's DDC channel.
type Transport interface {
	// ReadBytes reads at most n bytes from the device at addr.
	ReadBytes(addr byte, n int) ([]byte, error)

	// WriteBytes sends payload[1:] to the device at payload[0].
	WriteBytes(payload []byte) error
}
