package resolve

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandError reports a malformed FIT_RANGE command.
type CommandError struct {
	Command string
	Reason  string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("invalid FIT_RANGE command %q: %s", e.Command, e.Reason)
}

// RangePair is one fit window of a FIT_RANGE command, either as times in
// µs or as offsets from the first/last good bin.
type RangePair struct {
	InBins bool
	Start  float64
	End    float64
	Offset [2]int
}

// Window returns the time window of p for the given data range.
func (p RangePair) Window(fgb, lgb int, t0, dt float64) Window {
	if p.InBins {
		return OffsetWindow(fgb, lgb, t0, dt, p.Offset[0], p.Offset[1])
	}
	return Window{Start: p.Start, End: p.End}
}

// Command is a parsed FIT_RANGE command. Either Reset is set or Pairs holds
// one pair for all runs or one pair per run.
type Command struct {
	Reset bool
	Pairs []RangePair
}

// ParseFitRangeCommand parses
//
//	FIT_RANGE RESET
//	FIT_RANGE fgb[+n0] lgb[-n1] [fgb[+n10] lgb[-n11] ...]
//	FIT_RANGE start end [start1 end1 ...]
func ParseFitRangeCommand(cmd string) (Command, error) {
	tok := strings.Fields(cmd)
	if len(tok) == 0 || !strings.EqualFold(tok[0], "FIT_RANGE") {
		return Command{}, &CommandError{Command: cmd, Reason: "missing FIT_RANGE keyword"}
	}
	args := tok[1:]

	if len(args) == 1 && strings.EqualFold(args[0], "RESET") {
		return Command{Reset: true}, nil
	}
	if len(args) == 0 || len(args)%2 != 0 {
		return Command{}, &CommandError{Command: cmd, Reason: fmt.Sprintf("expected start/end pairs, got %d tokens", len(args))}
	}

	c := Command{Pairs: make([]RangePair, 0, len(args)/2)}
	for i := 0; i < len(args); i += 2 {
		p, err := parsePair(args[i], args[i+1])
		if err != nil {
			return Command{}, &CommandError{Command: cmd, Reason: err.Error()}
		}
		c.Pairs = append(c.Pairs, p)
	}

	return c, nil
}

// Select returns the pair that applies to run index run. A single pair
// applies to every run; otherwise the pairs are matched positionally.
func (c Command) Select(run int) (RangePair, error) {
	switch {
	case c.Reset:
		return RangePair{}, &CommandError{Command: "FIT_RANGE RESET", Reason: "reset carries no range"}
	case len(c.Pairs) == 1:
		return c.Pairs[0], nil
	case run < 0 || run >= len(c.Pairs):
		return RangePair{}, &CommandError{Reason: fmt.Sprintf("no range for run %d, %d given", run, len(c.Pairs))}
	default:
		return c.Pairs[run], nil
	}
}

func parsePair(a, b string) (RangePair, error) {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if strings.HasPrefix(la, "fgb") || strings.HasPrefix(lb, "lgb") {
		n0, err := parseOffset(la, "fgb", '+')
		if err != nil {
			return RangePair{}, err
		}
		n1, err := parseOffset(lb, "lgb", '-')
		if err != nil {
			return RangePair{}, err
		}
		return RangePair{InBins: true, Offset: [2]int{n0, n1}}, nil
	}

	start, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return RangePair{}, fmt.Errorf("start %q is not a number", a)
	}
	end, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return RangePair{}, fmt.Errorf("end %q is not a number", b)
	}
	return RangePair{Start: start, End: end}, nil
}

// parseOffset parses "fgb", "fgb+5" (sign '+') or "lgb", "lgb-3" (sign '-').
func parseOffset(s, prefix string, sign byte) (int, error) {
	if !strings.HasPrefix(s, prefix) {
		return 0, fmt.Errorf("%q does not start with %s", s, prefix)
	}
	rest := s[len(prefix):]
	if rest == "" {
		return 0, nil
	}
	if rest[0] != sign {
		return 0, fmt.Errorf("%q: offset must be written as %s%c<n>", s, prefix, sign)
	}
	n, err := strconv.Atoi(rest[1:])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q: offset is not a non-negative integer", s)
	}
	return n, nil
}
