package dht22

import "errors"

// ErrTimeout indicates a pulse wait reached the timeout, or an
// acknowledgement pulse fell outside its tolerance window. Transient
// timing faults look identical on the wire, so they share one error.
var ErrTimeout = errors.New("dht22: pulse timeout")

// ErrChecksum indicates a well-timed frame whose checksum byte does not
// match the data bytes.
var ErrChecksum = errors.New("dht22: checksum mismatch")
