package dht22

// Byte positions within a frame.
const (
	humidityHigh    = 0
	humidityLow     = 1
	temperatureHigh = 2
	temperatureLow  = 3
	checksumByte    = 4
)

const (
	frameBytes = 5
	frameBits  = frameBytes * 8
)

// Frame is the 5 raw bytes of one successful sensor transaction:
// humidity-high, humidity-low, temperature-high, temperature-low, checksum.
type Frame [frameBytes]byte

// ChecksumOK reports whether the checksum byte equals the low 8 bits of
// the 16-bit sum of the four data bytes.
func (f Frame) ChecksumOK() bool {
	sum := uint16(f[humidityHigh]) + uint16(f[humidityLow]) +
		uint16(f[temperatureHigh]) + uint16(f[temperatureLow])
	return f[checksumByte] == byte(sum)
}

// DecodeTemperature returns the temperature in degrees Celsius.
// The sensor uses sign-magnitude encoding: bit 7 of the temperature high
// byte is the sign, the remaining 15 bits are tenths of a degree.
func DecodeTemperature(f Frame) float64 {
	raw := uint16(f[temperatureHigh]&0x7F)<<8 | uint16(f[temperatureLow])
	t := float64(raw) * 0.1
	if f[temperatureHigh]&0x80 != 0 {
		return -t
	}
	return t
}

// DecodeHumidity returns the relative humidity in percent.
func DecodeHumidity(f Frame) float64 {
	raw := uint16(f[humidityHigh])<<8 | uint16(f[humidityLow])
	return float64(raw) * 0.1
}
