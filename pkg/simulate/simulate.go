// Package simulate 驱动 percolation 模型: 随机打开格子直到渗透、
// 回放记录下来的打开顺序、以及多次独立试验估计渗透阈值
//
// 所有操作都在调用方的 goroutine 上顺序执行
package simulate

import (
	"math/rand/v2"

	"percolation_tool/pkg/logutil"
	"percolation_tool/pkg/percolation"
)

// StepFunc 在每打开一个格子之后调用，step 从 1 开始
// 返回错误时模拟立即停止并返回该错误
type StepFunc func(step int, site percolation.Site) error

// Result 是一次模拟的结果
type Result struct {
	OpenSites  int
	TotalSites int
	Threshold  float64            // OpenSites / TotalSites
	Trace      []percolation.Site // 本次模拟打开的格子，按顺序
}

// NewRand 按种子创建随机数生成器，相同种子得到相同序列
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Run 每次随机选一个还关闭的格子打开，直到网格渗透
// 已经打开的格子不会再被选中，所以最多打开 rows*cols 次
func Run(p *percolation.Percolation, rng *rand.Rand, onStep StepFunc) (Result, error) {
	total := p.Rows() * p.Cols()
	res := Result{TotalSites: total}

	for _, idx := range rng.Perm(total) {
		if p.Percolates() {
			break
		}
		site := percolation.Site{Row: idx/p.Cols() + 1, Col: idx%p.Cols() + 1}
		open, err := p.IsOpen(site.Row, site.Col)
		if err != nil {
			return res, err
		}
		if open {
			continue
		}
		if err := p.OpenSite(site); err != nil {
			return res, err
		}
		res.Trace = append(res.Trace, site)
		logutil.Debug("打开 %v, 已打开 %d", site, p.NumberOfOpenSites())

		if onStep != nil {
			if err := onStep(len(res.Trace), site); err != nil {
				return finish(p, res), err
			}
		}
	}
	return finish(p, res), nil
}

func finish(p *percolation.Percolation, res Result) Result {
	res.OpenSites = p.NumberOfOpenSites()
	res.Threshold = float64(res.OpenSites) / float64(res.TotalSites)
	return res
}

// Replay 按顺序打开 sites 中的格子，返回成功打开的个数
// 遇到越界坐标时停止，之前打开的格子保留
func Replay(p *percolation.Percolation, sites []percolation.Site, onStep StepFunc) (int, error) {
	for i, site := range sites {
		if err := p.OpenSite(site); err != nil {
			logutil.Warn("回放第 %d 步 %v 失败: %v", i+1, site, err)
			return i, err
		}
		if onStep != nil {
			if err := onStep(i+1, site); err != nil {
				return i + 1, err
			}
		}
	}
	return len(sites), nil
}
