package simulate

import (
	"errors"
	"fmt"
	"math"

	"percolation_tool/pkg/logutil"
	"percolation_tool/pkg/percolation"

	"golang.org/x/exp/constraints"
)

// ErrInvalidTrials 试验次数小于 1
var ErrInvalidTrials = errors.New("simulate: 试验次数必须 >= 1")

// 95% 置信区间对应的 z 值
const confidence95 = 1.96

// Stats 是多次独立试验的统计结果
type Stats struct {
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	Trials        int     `json:"trials"`
	Mean          float64 `json:"mean"`
	Stddev        float64 `json:"stddev"`
	ConfLow       float64 `json:"conf_low"`
	ConfHigh      float64 `json:"conf_high"`
	MeanOpenSites float64 `json:"mean_open_sites"`
}

type number interface {
	constraints.Integer | constraints.Float
}

func mean[T number](xs []T) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	return sum / float64(len(xs))
}

// stddev 样本标准差，少于 2 个样本时为 0
func stddev[T number](xs []T) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := float64(x) - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// Estimate 在 rows x cols 网格上做 trials 次独立试验，估计渗透阈值
// 所有试验复用同一个网格，两次试验之间 Reset，试验顺序执行
func Estimate(rows, cols, trials int, seed uint64) (Stats, error) {
	if trials < 1 {
		return Stats{}, fmt.Errorf("%w: trials=%d", ErrInvalidTrials, trials)
	}

	p, err := percolation.New(rows, cols)
	if err != nil {
		return Stats{}, err
	}
	rng := NewRand(seed)
	thresholds := make([]float64, 0, trials)
	openCounts := make([]int, 0, trials)
	for i := 0; i < trials; i++ {
		if i > 0 {
			p.Reset()
		}
		res, err := Run(p, rng, nil)
		if err != nil {
			return Stats{}, err
		}
		logutil.Debug("第 %d 次试验: 阈值 %.4f", i+1, res.Threshold)
		thresholds = append(thresholds, res.Threshold)
		openCounts = append(openCounts, res.OpenSites)
	}

	st := Stats{
		Rows:          rows,
		Cols:          cols,
		Trials:        trials,
		Mean:          mean(thresholds),
		Stddev:        stddev(thresholds),
		MeanOpenSites: mean(openCounts),
	}
	half := confidence95 * st.Stddev / math.Sqrt(float64(trials))
	st.ConfLow = st.Mean - half
	st.ConfHigh = st.Mean + half
	return st, nil
}
