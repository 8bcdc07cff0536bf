package simulate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"percolation_tool/pkg/errorutil"
	"percolation_tool/pkg/gridfmt"
	"percolation_tool/pkg/griddot"
	"percolation_tool/pkg/gridjson"
	"percolation_tool/pkg/logutil"
	"percolation_tool/pkg/percolation"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

type OutputFormat string

const (
	FormatText OutputFormat = "txt"
	FormatJSON OutputFormat = "json"
	FormatDOT  OutputFormat = "dot"
)

func (f *OutputFormat) String() string { return string(*f) }

func (f *OutputFormat) Set(val string) error {
	switch OutputFormat(val) {
	case FormatText, FormatJSON, FormatDOT:
		*f = OutputFormat(val)
		return nil
	default:
		return fmt.Errorf("无效的输出格式: %s (txt/json/dot)", val)
	}
}

func (f *OutputFormat) Type() string {
	return "format"
}

func (OutputFormat) Values() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatDOT)}
}

// 三个子命令共用的输出参数
type outputOptions struct {
	Format     OutputFormat
	Style      string
	Axis       bool
	Path       bool
	JSONFormat gridjson.JSONFormat
	Output     string
}

func (o *outputOptions) bind(cmd *cobra.Command) {
	o.Format = FormatText
	o.JSONFormat = gridjson.JSONFormatMul
	cmd.Flags().VarP(&o.Format, "format", "t", "输出格式：txt/json/dot")
	cmd.Flags().StringVarP(&o.Style, "style", "S", "blocks",
		"txt 格式的字符样式："+strings.Join(gridfmt.StyleNames(), "/"))
	cmd.Flags().BoolVarP(&o.Axis, "axis", "a", false, "txt 格式打印行号和列号")
	cmd.Flags().BoolVarP(&o.Path, "path", "p", false, "输出一条从顶部到底部的路径（如果渗透）")
	cmd.Flags().VarP(&o.JSONFormat, "jsonformat", "F", "输出的 JSON 的格式(mul|one)，代表多行或者一行")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "输出文件，默认标准输出")
}

// writer 返回输出目标和关闭函数
func (o *outputOptions) writer(cmd *cobra.Command) (io.Writer, func() error, error) {
	if o.Output == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(o.Output)
	if err != nil {
		return nil, nil, errorutil.NewExitErrorWithMessage(errorutil.CodeIOError, "无法创建输出文件", err)
	}
	return f, f.Close, nil
}

// closeOutput 关闭输出，之前没有错误而关闭失败时把错误写回 *errp
func closeOutput(closeFn func() error, errp *error) {
	if cerr := closeFn(); cerr != nil && *errp == nil {
		*errp = errorutil.NewExitErrorWithMessage(errorutil.CodeIOError, "关闭输出文件失败", cerr)
	}
}

// emit 按格式输出网格最终状态
func (o *outputOptions) emit(out io.Writer, p *percolation.Percolation, trace []percolation.Site) error {
	var path []string
	if o.Path {
		g, err := griddot.Build(p)
		if err != nil {
			return err
		}
		path = griddot.WitnessPath(g)
	}

	switch o.Format {
	case FormatJSON:
		raw, err := gridjson.Snapshot(p, trace)
		if err != nil {
			return err
		}
		if o.Path {
			if raw, err = sjson.SetBytes(raw, "path", path); err != nil {
				return err
			}
		}
		formatted, err := gridjson.Format(raw, o.JSONFormat)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, strings.TrimRight(string(formatted), "\n"))
		return err
	case FormatDOT:
		dot, err := griddot.ToDOT(p)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, dot)
		return err
	default:
		style, err := gridfmt.ParseStyle(o.Style)
		if err != nil {
			return errorutil.NewExitErrorWithMessage(errorutil.CodeInvalidUsage, "样式无效", err)
		}
		text, err := gridfmt.Render(p, style, o.Axis)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, text); err != nil {
			return err
		}
		if o.Path {
			if path == nil {
				_, err = fmt.Fprintln(out, "路径: 无")
			} else {
				_, err = fmt.Fprintf(out, "路径: %s\n", strings.Join(path, " → "))
			}
		}
		return err
	}
}

// toExitError 把模型和解析的错误转换为带退出码的错误
func toExitError(err error) error {
	var rangeErr *percolation.RangeError
	switch {
	case err == nil:
		return nil
	case errorutil.HasExitCode(err):
		return err
	case errors.Is(err, percolation.ErrInvalidSize), errors.Is(err, ErrInvalidTrials):
		return errorutil.NewExitErrorWithMessage(errorutil.CodeInvalidUsage, "参数无效", err)
	case errors.As(err, &rangeErr):
		which := "太小"
		if rangeErr.TooLarge {
			which = "太大"
		}
		return errorutil.NewExitErrorWithMessage(
			errorutil.CodeInvalidData, fmt.Sprintf("坐标越界(%s %s)", rangeErr.Axis, which), err)
	case errors.Is(err, gridjson.ErrInvalidJSON), errors.Is(err, gridjson.ErrBadField):
		return errorutil.NewExitErrorWithMessage(errorutil.CodeInvalidData, "回放文件格式错误", err)
	}
	return errorutil.NewExitError(errorutil.CodeInternalErr, err)
}

func resolveSeed(cmd *cobra.Command, seed uint64) uint64 {
	if cmd.Flags().Changed("seed") {
		return seed
	}
	seed = uint64(time.Now().UnixNano())
	logutil.Info("未指定种子，使用 %d", seed)
	return seed
}

type runOptions struct {
	Rows  int
	Cols  int
	Seed  uint64
	Every int
	out   outputOptions
}

// RunCmd 随机打开格子直到渗透
func RunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "随机打开格子直到网格渗透",
		Long: `随机打开格子直到网格渗透

每一步从还关闭的格子中均匀随机选一个打开，网格渗透后停止。
相同的 --seed 得到相同的打开顺序。

Examples:

percolate run -r 20 -c 20 -s 42
percolate run -r 8 -c 8 -s 1 --every 5 -S ascii
percolate run -r 50 -c 50 -t json -F one -o trace.json
percolate run -r 10 -c 10 -t dot | dot -Tpng > grid.png`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			opts.Seed = resolveSeed(cmd, opts.Seed)
			logutil.Info("run 参数:\n%v", *opts)

			p, err := percolation.New(opts.Rows, opts.Cols)
			if err != nil {
				return toExitError(err)
			}
			out, closeOut, err := opts.out.writer(cmd)
			if err != nil {
				return err
			}
			defer closeOutput(closeOut, &err)

			var onStep StepFunc
			if opts.Every > 0 && opts.out.Format == FormatText {
				style, err := gridfmt.ParseStyle(opts.out.Style)
				if err != nil {
					return errorutil.NewExitErrorWithMessage(errorutil.CodeInvalidUsage, "样式无效", err)
				}
				onStep = func(step int, site percolation.Site) error {
					if step%opts.Every != 0 {
						return nil
					}
					frame, err := gridfmt.Render(p, style, opts.out.Axis)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(out, "第 %d 步 打开 %v\n%s\n\n", step, site, frame)
					return err
				}
			}

			res, err := Run(p, NewRand(opts.Seed), onStep)
			if err != nil {
				return toExitError(err)
			}
			if err := opts.out.emit(out, p, res.Trace); err != nil {
				return toExitError(err)
			}
			if opts.out.Format == FormatText {
				_, err = fmt.Fprintf(out, "渗透: 打开 %s / %s 个格子, 比例 %.4f\n",
					humanize.Comma(int64(res.OpenSites)), humanize.Comma(int64(res.TotalSites)), res.Threshold)
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&opts.Rows, "rows", "r", 20, "网格行数")
	cmd.Flags().IntVarP(&opts.Cols, "cols", "c", 20, "网格列数")
	cmd.Flags().Uint64VarP(&opts.Seed, "seed", "s", 0, "随机数种子（默认使用当前时间）")
	cmd.Flags().IntVar(&opts.Every, "every", 0, "txt 格式下每打开 N 个格子打印一帧，0 表示只打印最终结果")
	opts.out.bind(cmd)

	return cmd
}

type statsOptions struct {
	Rows       int
	Cols       int
	Trials     int
	Seed       uint64
	Format     OutputFormat
	JSONFormat gridjson.JSONFormat
}

// StatsCmd 多次试验估计渗透阈值
func StatsCmd() *cobra.Command {
	opts := &statsOptions{Format: FormatText, JSONFormat: gridjson.JSONFormatMul}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "多次独立试验估计渗透阈值",
		Long: `多次独立试验估计渗透阈值

每次试验使用新的网格，打开格子直到渗透，记录打开比例。
输出比例的均值、样本标准差和 95% 置信区间。试验按顺序执行。

Examples:

percolate stats -r 200 -c 200 -T 100 -s 7
percolate stats -r 64 -c 64 -T 30 -t json -F one`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format == FormatDOT {
				return errorutil.NewExitErrorWithMessage(
					errorutil.CodeInvalidUsage, "stats 不支持 dot 格式", nil)
			}
			opts.Seed = resolveSeed(cmd, opts.Seed)
			logutil.Info("stats 参数:\n%v", *opts)

			st, err := Estimate(opts.Rows, opts.Cols, opts.Trials, opts.Seed)
			if err != nil {
				return toExitError(err)
			}
			out := cmd.OutOrStdout()

			if opts.Format == FormatJSON {
				raw, err := json.Marshal(st)
				if err != nil {
					return toExitError(err)
				}
				formatted, err := gridjson.Format(raw, opts.JSONFormat)
				if err != nil {
					return toExitError(err)
				}
				_, err = fmt.Fprintln(out, strings.TrimRight(string(formatted), "\n"))
				return err
			}

			_, err = fmt.Fprintf(out,
				"grid     = %d x %d\ntrials   = %s\nmean     = %.6f\nstddev   = %.6f\n95%% 置信区间 = [%.6f, %.6f]\n",
				st.Rows, st.Cols, humanize.Comma(int64(st.Trials)),
				st.Mean, st.Stddev, st.ConfLow, st.ConfHigh)
			return err
		},
	}

	cmd.Flags().IntVarP(&opts.Rows, "rows", "r", 20, "网格行数")
	cmd.Flags().IntVarP(&opts.Cols, "cols", "c", 20, "网格列数")
	cmd.Flags().IntVarP(&opts.Trials, "trials", "T", 30, "试验次数")
	cmd.Flags().Uint64VarP(&opts.Seed, "seed", "s", 0, "随机数种子（默认使用当前时间）")
	cmd.Flags().VarP(&opts.Format, "format", "t", "输出格式：txt/json")
	cmd.Flags().VarP(&opts.JSONFormat, "jsonformat", "F", "输出的 JSON 的格式(mul|one)，代表多行或者一行")

	return cmd
}

type replayOptions struct {
	Input string
	out   outputOptions
}

// ReplayCmd 回放 JSON 文件中记录的打开顺序
func ReplayCmd() *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "回放 JSON 文件中记录的打开顺序",
		Long: `回放 JSON 文件中记录的打开顺序

文件格式和 run -t json 的输出一致，只读取 rows cols trace 三个字段：
{
    "rows": 3,
    "cols": 3,
    "trace": [[1, 1], [2, 1], {"row": 3, "col": 1}]
}

Examples:

percolate replay -i trace.json
percolate replay -i - -t dot < trace.json`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			raw, err := readInput(cmd, opts.Input)
			if err != nil {
				return err
			}
			tr, err := gridjson.LoadTrace(raw)
			if err != nil {
				return toExitError(err)
			}
			p, err := percolation.New(tr.Rows, tr.Cols)
			if err != nil {
				return toExitError(err)
			}
			applied, err := Replay(p, tr.Sites, nil)
			if err != nil {
				return toExitError(fmt.Errorf("trace[%d]: %w", applied, err))
			}

			out, closeOut, err := opts.out.writer(cmd)
			if err != nil {
				return err
			}
			defer closeOutput(closeOut, &err)

			if err := opts.out.emit(out, p, tr.Sites); err != nil {
				return toExitError(err)
			}
			if opts.out.Format == FormatText {
				_, err = fmt.Fprintf(out, "回放 %s 步, 打开 %s 个格子, 渗透: %v\n",
					humanize.Comma(int64(applied)), humanize.Comma(int64(p.NumberOfOpenSites())), p.Percolates())
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "回放文件路径，- 表示标准输入")
	opts.out.bind(cmd)
	cmd.MarkFlagRequired("input")

	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errorutil.NewExitErrorWithMessage(errorutil.CodeIOError, "读取标准输入失败", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errorutil.NewExitErrorWithMessage(errorutil.CodeMissingInput, "回放文件不存在", err)
		}
		return nil, errorutil.NewExitErrorWithMessage(errorutil.CodeIOError, "无法读取回放文件", err)
	}
	return raw, nil
}
