package features

import "math"

// Table is a feature table: one row per price-series timestep, one column
// per schema entry, plus the training target. Cells without enough rolling
// history are NaN; NaN handling happens at the consumption points below,
// never inside the table itself.
type Table struct {
	schema *Schema
	n      int
	cols   [][]float64 // indexed by schema column position
	target []float64
}

func newTable(schema *Schema, n int) *Table {
	cols := make([][]float64, schema.Width())
	for i := range cols {
		cols[i] = nanSlice(n)
	}
	return &Table{schema: schema, n: n, cols: cols}
}

func (t *Table) set(name string, values []float64) {
	i, err := t.schema.Index(name)
	if err != nil {
		panic(err) // extractor and schema disagree; programming error
	}
	t.cols[i] = values
}

func (t *Table) setConst(name string, v float64) {
	i, err := t.schema.Index(name)
	if err != nil {
		panic(err)
	}
	col := t.cols[i]
	for j := range col {
		col[j] = v
	}
}

func (t *Table) column(name string) []float64 {
	i, err := t.schema.Index(name)
	if err != nil {
		panic(err)
	}
	return t.cols[i]
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.n }

// Schema returns the column contract this table was built against.
func (t *Table) Schema() *Schema { return t.schema }

// Column returns a feature column by name.
func (t *Table) Column(name string) ([]float64, error) {
	i, err := t.schema.Index(name)
	if err != nil {
		return nil, err
	}
	return t.cols[i], nil
}

// Target returns the next-step fractional return column.
func (t *Table) Target() []float64 { return t.target }

// TrainingMatrix returns the rows where every feature and the target are
// defined. Rows excluded here stay in the table; exclusion applies only to
// training-set construction.
func (t *Table) TrainingMatrix() (X [][]float64, y []float64) {
	for row := 0; row < t.n; row++ {
		if math.IsNaN(t.target[row]) {
			continue
		}
		vec := make([]float64, len(t.cols))
		ok := true
		for ci := range t.cols {
			v := t.cols[ci][row]
			if math.IsNaN(v) {
				ok = false
				break
			}
			vec[ci] = v
		}
		if !ok {
			continue
		}
		X = append(X, vec)
		y = append(y, t.target[row])
	}
	return X, y
}

// LastVector returns the final row's feature vector with NaN replaced by 0,
// the neutral value the models expect at prediction time.
func (t *Table) LastVector() []float64 {
	vec := make([]float64, len(t.cols))
	for ci := range t.cols {
		v := t.cols[ci][t.n-1]
		if math.IsNaN(v) {
			v = 0
		}
		vec[ci] = v
	}
	return vec
}

// LastIndicators returns the last row's RSI, MACD and MACD signal for the
// technical summary, substituting neutral values when undefined.
func (t *Table) LastIndicators() (rsi, macd, macdSignal float64) {
	rsi = t.column(ColRSI14)[t.n-1]
	if math.IsNaN(rsi) {
		rsi = 50
	}
	macd = t.column(ColMACD)[t.n-1]
	if math.IsNaN(macd) {
		macd = 0
	}
	macdSignal = t.column(ColMACDSignal)[t.n-1]
	if math.IsNaN(macdSignal) {
		macdSignal = 0
	}
	return rsi, macd, macdSignal
}
