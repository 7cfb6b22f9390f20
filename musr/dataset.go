package musr

// DataSet is a prepared series with its theory. Times are in µs.
type DataSet struct {
	DataTimeStart float64
	DataTimeStep  float64
	Value         []float64
	Error         []float64

	TheoryTimeStart float64
	TheoryTimeStep  float64
	Theory          []float64
}

// Len returns the number of data points.
func (d *DataSet) Len() int { return len(d.Value) }

// Time returns the time of data point i.
func (d *DataSet) Time(i int) float64 {
	return d.DataTimeStart + float64(i)*d.DataTimeStep
}

// TheoryTime returns the time of theory point i.
func (d *DataSet) TheoryTime(i int) float64 {
	return d.TheoryTimeStart + float64(i)*d.TheoryTimeStep
}
