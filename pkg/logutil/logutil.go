package logutil

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// Level 日志级别，值越小打印得越多
type Level int

const (
	DEBUG Level = iota // 0
	INFO               // 1
	WARN               // 2
	ERROR              // 3
)

// 日志级别映射字符串
var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var (
	logger       *log.Logger
	logFile      *os.File
	once         sync.Once
	mu           sync.Mutex
	currentLevel = INFO // 默认日志级别
)

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Set 和 Type 让 *Level 满足 pflag.Value，可以直接用 VarP 绑定
func (l *Level) Set(val string) error {
	level, err := ParseLogLevel(val)
	if err != nil {
		return err
	}
	*l = level
	return nil
}

func (l *Level) Type() string {
	return "loglevel"
}

// ParseLogLevel 解析日志级别名字，不区分大小写
func ParseLogLevel(val string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(val))
	for level, name := range levelNames {
		if name == upper {
			return level, nil
		}
	}
	return INFO, fmt.Errorf("无效的日志级别: %q (DEBUG/INFO/WARN/ERROR)", val)
}

// InitLogger 初始化日志，允许指定输出目标（stdout 或 文件）
// 只有第一次调用生效
func InitLogger(output string, level Level) {
	once.Do(func() {
		var w io.Writer
		if output == "stdout" {
			w = os.Stdout
		} else {
			f, err := os.OpenFile(
				// 以追加模式打开日志文件，不会覆盖已有内容
				output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				log.Fatal("无法创建日志文件:", err)
			}
			logFile = f
			w = f
		}
		setOutput(w, level)
	})
}

func setOutput(w io.Writer, level Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", log.LstdFlags)
	currentLevel = level
}

// SetLogLevel 设置日志级别
func SetLogLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
}

// logMessage 记录日志，仅输出符合当前级别的日志
func logMessage(level Level, msg string, args ...any) {
	if logger == nil {
		InitLogger("stdout", INFO) // 默认输出到控制台
	}
	mu.Lock()
	defer mu.Unlock()
	if level < currentLevel {
		return
	}

	_, file, line, _ := runtime.Caller(2) // 获取真正调用的文件+行号
	formatted := make([]any, 0, len(args))
	for _, arg := range args {
		formatted = append(formatted, formatArg(arg))
	}
	logger.Printf("[%s:%d] %s", filepath.Base(file), line, fmt.Sprintf(msg, formatted...))
}

// formatArg 结构体展开字段，切片和字典转换为 JSON，其余原样输出
func formatArg(arg any) any {
	v := reflect.ValueOf(arg)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		// 实现了 Stringer 的结构体(比如坐标)按自己的格式输出
		if s, ok := arg.(fmt.Stringer); ok {
			return s.String()
		}
		return PrintStruct(arg, false)
	case reflect.Slice, reflect.Map:
		jsonData, err := json.Marshal(arg)
		if err != nil {
			return fmt.Sprintf("无法格式化: %v", err)
		}
		return string(jsonData)
	}
	return arg
}

// Debug 记录 DEBUG 日志
func Debug(msg string, args ...any) {
	logMessage(DEBUG, "[DBG] "+msg, args...)
}

// Info 记录 INFO 日志
func Info(msg string, args ...any) {
	logMessage(INFO, "[INFO] "+msg, args...)
}

// Warn 记录 WARN 日志
func Warn(msg string, args ...any) {
	logMessage(WARN, "[WARN] "+msg, args...)
}

// Error 记录 ERROR 日志
func Error(msg string, args ...any) {
	logMessage(ERROR, "[ERR] "+msg, args...)
}

// CloseLogger 关闭日志文件（如果有的话）
// 不要用 defer 调用后再 os.Exit，defer 不会执行
func CloseLogger() error {
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// 递归格式化结构体信息
func formatStruct(s any, indent string) string {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Sprintf("%s非结构体类型: %#v\n", indent, v.Kind())
	}
	t := v.Type()

	var builder strings.Builder
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		// 未导出的字段取不到值
		if !field.IsExported() {
			continue
		}
		value := v.Field(i)
		if value.Kind() != reflect.Struct {
			builder.WriteString(fmt.Sprintf("%s%s: %#v\n", indent, field.Name, value.Interface()))
		} else {
			// 嵌套结构体先打印标头，再递归处理
			builder.WriteString(fmt.Sprintf("%s%s:\n", indent, field.Name))
			builder.WriteString(formatStruct(value.Interface(), indent+"    "))
		}
	}
	return builder.String()
}

// PrintStruct 打印结构体信息（支持控制是否输出到标准输出）
func PrintStruct(s any, printToStdout bool) string {
	result := formatStruct(s, "")
	if printToStdout {
		fmt.Print(result)
	}
	return result
}
