package gpio

import "errors"

// Op records one mutation performed on a FakeLine.
type Op struct {
	Kind  string // "output", "input", "write"
	Level Level  // for "output" and "write"
	Bias  Bias   // for "input"
}

// FakeLine is a test double that records mode changes and writes, and
// returns scripted levels from Read.
type FakeLine struct {
	// Levels contains scripted values to return from Read.
	// If exhausted, the last level is returned repeatedly.
	Levels []Level

	// Ops records every SetOutput, SetInput and Write call in order.
	Ops []Op

	// Reads counts Read calls.
	Reads int

	// Closed tracks if Close was called.
	Closed bool

	// ReadError, if set, will be returned by Read.
	ReadError error

	// ConfigError, if set, will be returned by SetOutput, SetInput and Write.
	ConfigError error

	index int
}

// NewFakeLine creates a FakeLine that reads the given levels.
func NewFakeLine(levels ...Level) *FakeLine {
	return &FakeLine{Levels: levels}
}

// SetOutput records the mode change.
func (f *FakeLine) SetOutput(level Level) error {
	if f.ConfigError != nil {
		return f.ConfigError
	}
	f.Ops = append(f.Ops, Op{Kind: "output", Level: level})
	return nil
}

// SetInput records the mode change.
func (f *FakeLine) SetInput(bias Bias) error {
	if f.ConfigError != nil {
		return f.ConfigError
	}
	f.Ops = append(f.Ops, Op{Kind: "input", Bias: bias})
	return nil
}

// Write records the level change.
func (f *FakeLine) Write(level Level) error {
	if f.ConfigError != nil {
		return f.ConfigError
	}
	f.Ops = append(f.Ops, Op{Kind: "write", Level: level})
	return nil
}

// Read returns the next scripted level.
// If levels are exhausted, returns the last level repeatedly.
func (f *FakeLine) Read() (Level, error) {
	f.Reads++
	if f.ReadError != nil {
		return Low, f.ReadError
	}
	if len(f.Levels) == 0 {
		return Low, errors.New("no levels configured")
	}
	level := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}
	return level, nil
}

// Close marks the line as closed.
func (f *FakeLine) Close() error {
	f.Closed = true
	return nil
}

// FakeChip hands out a prepared FakeLine.
type FakeChip struct {
	// Line is returned by RequestLine. If nil, a fresh FakeLine reading
	// constant High is created per request.
	Line *FakeLine

	// RequestError, if set, will be returned by RequestLine.
	RequestError error

	// Requests records the offsets passed to RequestLine.
	Requests []int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeChip creates a FakeChip returning the given line.
func NewFakeChip(line *FakeLine) *FakeChip {
	return &FakeChip{Line: line}
}

// RequestLine returns the prepared line.
func (c *FakeChip) RequestLine(offset int, level Level, bias Bias) (Line, error) {
	c.Requests = append(c.Requests, offset)
	if c.RequestError != nil {
		return nil, c.RequestError
	}
	if c.Line == nil {
		c.Line = NewFakeLine(High)
	}
	return c.Line, nil
}

// Close marks the chip as closed.
func (c *FakeChip) Close() error {
	c.Closed = true
	return nil
}
