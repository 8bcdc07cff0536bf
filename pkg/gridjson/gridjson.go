package gridjson

import (
	"errors"
	"fmt"
	"math"

	"percolation_tool/pkg/gridfmt"
	"percolation_tool/pkg/percolation"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	// ErrInvalidJSON 输入不是合法的 JSON
	ErrInvalidJSON = errors.New("gridjson: 输入内容不是有效的 JSON")
	// ErrBadField 字段缺失或者类型不对
	ErrBadField = errors.New("gridjson: 字段无效")
)

// Grid 是可以做快照的网格，*percolation.Percolation 满足该接口
type Grid interface {
	gridfmt.Grid
	NumberOfOpenSites() int
	Percolates() bool
}

// Trace 是从回放文件中读出来的内容
type Trace struct {
	Rows  int
	Cols  int
	Sites []percolation.Site
}

type JSONFormat string

const (
	JSONFormatOne JSONFormat = "one"
	JSONFormatMul JSONFormat = "mul"
)

// 为了让 VarP 接收自定义类型，实现 flag.Value 接口(String Set Type)即可
func (f *JSONFormat) String() string { return string(*f) }

func (f *JSONFormat) Set(val string) error {
	switch val {
	case string(JSONFormatMul), string(JSONFormatOne):
		*f = JSONFormat(val)
		return nil
	default:
		return fmt.Errorf("无效的 jsonformat 值: %s", val)
	}
}

func (f *JSONFormat) Type() string {
	return "jsonformat"
}

// 列出所有的合法值
func (JSONFormat) Values() []string {
	return []string{
		string(JSONFormatMul),
		string(JSONFormatOne),
	}
}

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "    "}

// Format 按多行或者一行重新排版 JSON
func Format(raw []byte, f JSONFormat) ([]byte, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	switch f {
	case JSONFormatMul:
		return pretty.PrettyOptions(raw, prettyOptions), nil
	case JSONFormatOne:
		return pretty.Ugly(raw), nil
	default:
		return nil, fmt.Errorf("不支持的选项内容: %s", f)
	}
}

// Snapshot 生成网格当前状态的 JSON
// cells 每行一个字符串，'#' 关闭 '.' 打开 '~' 满
// trace 为打开顺序，格式 [[row,col],...]，可以直接作为回放文件
func Snapshot(g Grid, trace []percolation.Site) ([]byte, error) {
	cells, err := gridfmt.Rows(g)
	if err != nil {
		return nil, err
	}
	pairs := make([][2]int, 0, len(trace))
	for _, s := range trace {
		pairs = append(pairs, [2]int{s.Row, s.Col})
	}

	fields := []struct {
		path  string
		value any
	}{
		{"rows", g.Rows()},
		{"cols", g.Cols()},
		{"open_sites", g.NumberOfOpenSites()},
		{"percolates", g.Percolates()},
		{"cells", cells},
		{"trace", pairs},
	}

	raw := []byte(`{}`)
	for _, f := range fields {
		raw, err = sjson.SetBytes(raw, f.path, f.value)
		if err != nil {
			return nil, fmt.Errorf("写入字段 %s 失败: %w", f.path, err)
		}
	}
	return raw, nil
}

// LoadTrace 解析回放文件，只需要 rows cols trace 三个字段
// trace 里的元素可以是 [row,col] 或者 {"row":r,"col":c}
// 坐标是否越界由网格自己判断
func LoadTrace(raw []byte) (Trace, error) {
	if !gjson.ValidBytes(raw) {
		return Trace{}, ErrInvalidJSON
	}

	var tr Trace
	var err error
	if tr.Rows, err = intField(gjson.GetBytes(raw, "rows"), "rows"); err != nil {
		return Trace{}, err
	}
	if tr.Cols, err = intField(gjson.GetBytes(raw, "cols"), "cols"); err != nil {
		return Trace{}, err
	}

	res := gjson.GetBytes(raw, "trace")
	if !res.Exists() || res.Type == gjson.Null {
		return tr, nil
	}
	if !res.IsArray() {
		return Trace{}, fmt.Errorf("%w: trace 必须是数组", ErrBadField)
	}

	for i, item := range res.Array() {
		var row, col gjson.Result
		switch {
		case item.IsArray():
			pair := item.Array()
			if len(pair) != 2 {
				return Trace{}, fmt.Errorf("%w: trace[%d] 必须是 [row,col]", ErrBadField, i)
			}
			row, col = pair[0], pair[1]
		case item.IsObject():
			row, col = item.Get("row"), item.Get("col")
		default:
			return Trace{}, fmt.Errorf("%w: trace[%d] 类型 %s 不支持", ErrBadField, i, item.Type)
		}

		r, err := intField(row, fmt.Sprintf("trace[%d].row", i))
		if err != nil {
			return Trace{}, err
		}
		c, err := intField(col, fmt.Sprintf("trace[%d].col", i))
		if err != nil {
			return Trace{}, err
		}
		tr.Sites = append(tr.Sites, percolation.Site{Row: r, Col: c})
	}
	return tr, nil
}

func intField(res gjson.Result, name string) (int, error) {
	if !res.Exists() {
		return 0, fmt.Errorf("%w: 字段 %q 不存在", ErrBadField, name)
	}
	if res.Type != gjson.Number || res.Num != math.Trunc(res.Num) {
		return 0, fmt.Errorf("%w: 字段 %q 必须是整数，实际是 %s", ErrBadField, name, res.Raw)
	}
	return int(res.Int()), nil
}
