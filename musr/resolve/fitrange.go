package resolve

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-musr/musr"
)

// Window is a fit window in µs relative to t0.
type Window struct {
	Start float64
	End   float64
}

// OffsetWindow converts bin offsets relative to the data range into a time
// window: ((fgb+n0-t0)·dt, (lgb-n1-t0)·dt).
func OffsetWindow(fgb, lgb int, t0 float64, dt float64, n0, n1 int) Window {
	return Window{
		Start: (float64(fgb+n0) - t0) * dt,
		End:   (float64(lgb-n1) - t0) * dt,
	}
}

// FitRange resolves the fit window: RUN block, then GLOBAL block, then the
// data range itself. Windows given as bin offsets are converted to times
// and the times are written back into the block they came from.
func FitRange(run *musr.RunBlock, global *musr.GlobalBlock, fgb, lgb int, t0, dt float64, log logrus.FieldLogger) Window {
	if w, ok := blockWindow(run.FitRange, fgb, lgb, t0, dt); ok {
		return w
	}
	if global != nil {
		if w, ok := blockWindow(global.FitRange, fgb, lgb, t0, dt); ok {
			return w
		}
	}

	w := OffsetWindow(fgb, lgb, t0, dt, 0, 0)
	log.WithFields(logrus.Fields{"run": run.Name(), "start": w.Start, "end": w.End}).
		Warn("no fit range given, using the data range")
	return w
}

func blockWindow(fr *musr.FitRange, fgb, lgb int, t0, dt float64) (Window, bool) {
	if fr == nil {
		return Window{}, false
	}
	if fr.InBins {
		w := OffsetWindow(fgb, lgb, t0, dt, fr.Offset[0], fr.Offset[1])
		fr.Start, fr.End = w.Start, w.End
		return w, true
	}
	return Window{Start: fr.Start, End: fr.End}, true
}
