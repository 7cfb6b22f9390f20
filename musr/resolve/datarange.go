package resolve

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-musr/musr"
)

// defaultStartOffset is the gap between t0 and the first good bin used when
// no data range is given, in µs.
const defaultStartOffset = 10e-3

// DataRange resolves the first and last good bin. Negative entries of a
// block's data range count as unset. When neither block gives a bound the
// start is placed 10 ns after t0 and the end at the histogram end; the
// guesses are written back into the RUN block.
//
// dt is the bin width in µs.
func DataRange(run *musr.RunBlock, global *musr.GlobalBlock, t0 float64, histLen int, dt float64, log logrus.FieldLogger) (fgb, lgb int, err error) {
	start, end := -1, -1
	if r := run.DataRange; r != nil {
		start, end = r.Start, r.End
	}
	if global != nil && global.DataRange != nil {
		if start < 0 {
			start = global.DataRange.Start
		}
		if end < 0 {
			end = global.DataRange.End
		}
	}

	entry := log.WithField("run", run.Name())
	if start < 0 {
		offset := 0
		if dt > 0 {
			offset = int(defaultStartOffset / dt)
		}
		start = int(t0) + offset
		setDataRange(run, start, -1)
		entry.WithField("start", start).Warn("data range start not given, using t0 + 10 ns")
	}
	if end < 0 {
		end = histLen
		setDataRange(run, -1, end)
		entry.WithField("end", end).Warn("data range end not given, using the histogram length")
	}

	if end < start {
		start, end = end, start
	}
	if start < 0 || start > histLen {
		return 0, 0, fmt.Errorf("%w: start bin %d, histogram length %d", ErrDataRange, start, histLen)
	}
	if end > histLen {
		entry.WithFields(logrus.Fields{"end": end, "length": histLen}).
			Warn("data range end beyond histogram, clamping to length-1")
		end = histLen - 1
	}

	return start, end, nil
}

func setDataRange(run *musr.RunBlock, start, end int) {
	if run.DataRange == nil {
		run.DataRange = &musr.BinRange{Start: -1, End: -1}
	}
	if start >= 0 {
		run.DataRange.Start = start
	}
	if end >= 0 {
		run.DataRange.End = end
	}
}
