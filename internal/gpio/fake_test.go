package gpio

import (
	"errors"
	"testing"
)

func TestFakeLineReadsScript(t *testing.T) {
	line := NewFakeLine(High, Low, High)

	want := []Level{High, Low, High}
	for i, w := range want {
		got, err := line.Read()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d: got %v, want %v", i, got, w)
		}
	}
}

func TestFakeLineRepeatsLastLevel(t *testing.T) {
	line := NewFakeLine(Low, High)

	line.Read()
	line.Read()

	// Script exhausted: last level sticks.
	for i := 0; i < 3; i++ {
		got, err := line.Read()
		if err != nil {
			t.Fatalf("read after exhaustion: %v", err)
		}
		if got != High {
			t.Errorf("read after exhaustion: got %v, want HIGH", got)
		}
	}
	if line.Reads != 5 {
		t.Errorf("reads: got %d, want 5", line.Reads)
	}
}

func TestFakeLineNoLevels(t *testing.T) {
	line := NewFakeLine()
	if _, err := line.Read(); err == nil {
		t.Error("expected error when no levels configured")
	}
}

func TestFakeLineReadError(t *testing.T) {
	line := NewFakeLine(High)
	line.ReadError = errors.New("boom")
	if _, err := line.Read(); err == nil {
		t.Error("expected read error")
	}
}

func TestFakeLineRecordsOps(t *testing.T) {
	line := NewFakeLine(High)

	line.SetOutput(High)
	line.Write(Low)
	line.SetInput(BiasPullUp)

	want := []Op{
		{Kind: "output", Level: High},
		{Kind: "write", Level: Low},
		{Kind: "input", Bias: BiasPullUp},
	}
	if len(line.Ops) != len(want) {
		t.Fatalf("ops: got %d, want %d", len(line.Ops), len(want))
	}
	for i, op := range want {
		if line.Ops[i] != op {
			t.Errorf("op %d: got %+v, want %+v", i, line.Ops[i], op)
		}
	}
}

func TestFakeLineConfigError(t *testing.T) {
	line := NewFakeLine(High)
	line.ConfigError = errors.New("boom")

	if err := line.SetOutput(High); err == nil {
		t.Error("SetOutput: expected error")
	}
	if err := line.SetInput(BiasPullUp); err == nil {
		t.Error("SetInput: expected error")
	}
	if err := line.Write(Low); err == nil {
		t.Error("Write: expected error")
	}
	if len(line.Ops) != 0 {
		t.Errorf("failed ops should not be recorded, got %v", line.Ops)
	}
}

func TestFakeChip(t *testing.T) {
	line := NewFakeLine(High)
	chip := NewFakeChip(line)

	got, err := chip.RequestLine(16, High, BiasPullUp)
	if err != nil {
		t.Fatalf("RequestLine: %v", err)
	}
	if got != line {
		t.Error("expected the prepared line")
	}
	if len(chip.Requests) != 1 || chip.Requests[0] != 16 {
		t.Errorf("requests: got %v, want [16]", chip.Requests)
	}

	got.Close()
	if !line.Closed {
		t.Error("line not closed")
	}

	chip.Close()
	if !chip.Closed {
		t.Error("chip not closed")
	}
}

func TestFakeChipRequestError(t *testing.T) {
	chip := NewFakeChip(nil)
	chip.RequestError = errors.New("busy")

	if _, err := chip.RequestLine(16, High, BiasPullUp); err == nil {
		t.Error("expected request error")
	}
}

func TestLevelString(t *testing.T) {
	if High.String() != "HIGH" {
		t.Errorf("High: got %q", High.String())
	}
	if Low.String() != "LOW" {
		t.Errorf("Low: got %q", Low.String())
	}
}
