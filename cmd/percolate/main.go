package main

import (
	"fmt"
	"io"
	"os"

	"percolation_tool/pkg/errorutil"
	"percolation_tool/pkg/logutil"
	"percolation_tool/pkg/simulate"

	"github.com/spf13/cobra"
)

const TOOL_VERSION = "1.0.0+20251015"

func newRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:     "percolate",
		Version: TOOL_VERSION,
		Short:   fmt.Sprintf("percolate v%s 网格渗透模拟工具，支持 run/stats/replay 子命令", TOOL_VERSION),
		Long: "  ##.#.   ~~#~#\n" +
			"  #..#. → #~~#~\n" +
			"  ..#.#   ~~#~#\n" +
			fmt.Sprintf("\npercolate v%s 网格渗透模拟工具，支持 run/stats/replay 子命令\n", TOOL_VERSION),
	}

	rootCmd.AddCommand(simulate.RunCmd(), simulate.StatsCmd(), simulate.ReplayCmd())
	var logFile string
	logLevel := logutil.WARN

	// 定义全局flag(屁股后面带P的函数才支持短选项)
	rootCmd.PersistentFlags().VarP(&logLevel, "log-level", "e", "日志等级(DEBUG/INFO/WARN/ERROR)")
	rootCmd.PersistentFlags().StringVarP(&logFile, "log-file", "l", "percolate.log", "日志文件名(默认percolate.log，stdout 表示标准输出)")
	// 阻止 Cobra 在命令参数错误时输出帮助
	rootCmd.SilenceUsage = true
	// 阻止Cobra自动打印RunEs返回的错误内容
	rootCmd.SilenceErrors = true

	// PersistentPreRunE 在 flag 值填充后执行
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logutil.InitLogger(logFile, logLevel)
		return nil
	}
	return rootCmd
}

// reportError 记录失败原因，把 JSON 描述写到 w，返回退出码
func reportError(w io.Writer, err error) int {
	// cobra 自身的参数解析错误没有退出码
	if !errorutil.HasExitCode(err) {
		err = errorutil.NewExitErrorWithMessage(errorutil.CodeInvalidUsage, "命令行参数错误", err)
	}
	msg, code := errorutil.FormatErrorAndCode(err)
	logutil.Error("命令执行失败: %v (根因: %v)", err, errorutil.RootError(err))
	fmt.Fprintln(w, msg)
	return code
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		code := reportError(os.Stderr, err)
		logutil.CloseLogger()
		os.Exit(code)
	}

	// 不要用defer，因为defer是在函数返回前执行的，而不是os.Exit()执行前执行
	logutil.CloseLogger()
	os.Exit(0)
}
