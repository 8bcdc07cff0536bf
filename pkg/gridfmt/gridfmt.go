package gridfmt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Grid 是可以被渲染的网格，*percolation.Percolation 满足该接口
type Grid interface {
	Rows() int
	Cols() int
	IsOpen(row, col int) (bool, error)
	IsFull(row, col int) (bool, error)
}

// Style 定义三种格子状态的显示字符
// 字符的显示宽度可以不同，渲染时按最宽的补齐
type Style struct {
	Closed string
	Open   string
	Full   string
}

var (
	// ASCII 适合日志和 JSON 快照
	ASCII = Style{Closed: "#", Open: ".", Full: "~"}
	// Blocks 适合终端显示
	Blocks = Style{Closed: "██", Open: "  ", Full: "░░"}
	// CJK 全角字符，用来验证宽字符对齐
	CJK = Style{Closed: "墙", Open: "　", Full: "水"}
)

var styles = map[string]Style{
	"ascii":  ASCII,
	"blocks": Blocks,
	"cjk":    CJK,
}

// 模糊宽度字符(█ ░ 等)按照宽度 1 计算
var cond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// StyleNames 列出所有合法的样式名
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseStyle 按名字查找样式
func ParseStyle(name string) (Style, error) {
	s, ok := styles[strings.ToLower(name)]
	if !ok {
		return Style{}, fmt.Errorf("未知的样式 %q，可选: %s", name, strings.Join(StyleNames(), "/"))
	}
	return s, nil
}

// CellWidth 返回该样式下一个格子的显示宽度
func (s Style) CellWidth() int {
	w := 1
	for _, g := range []string{s.Closed, s.Open, s.Full} {
		if gw := cond.StringWidth(g); gw > w {
			w = gw
		}
	}
	return w
}

// Render 把网格渲染成多行文本(末尾不带换行)
// withAxis 为 true 时第一行是列号，每行前面是右对齐的行号
func Render(g Grid, style Style, withAxis bool) (string, error) {
	w := style.CellWidth()
	closed := cond.FillRight(style.Closed, w)
	open := cond.FillRight(style.Open, w)
	full := cond.FillRight(style.Full, w)

	labelWidth := len(strconv.Itoa(g.Rows()))
	lines := make([]string, 0, g.Rows()+1)

	if withAxis {
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", labelWidth+1))
		for c := 1; c <= g.Cols(); c++ {
			label := strconv.Itoa(c)
			// 列号比格子宽时只显示个位
			if len(label) > w {
				label = strconv.Itoa(c % 10)
			}
			b.WriteString(cond.FillLeft(label, w))
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	for r := 1; r <= g.Rows(); r++ {
		var b strings.Builder
		if withAxis {
			b.WriteString(cond.FillLeft(strconv.Itoa(r), labelWidth))
			b.WriteString(" ")
		}
		for c := 1; c <= g.Cols(); c++ {
			isFull, err := g.IsFull(r, c)
			if err != nil {
				return "", err
			}
			if isFull {
				b.WriteString(full)
				continue
			}
			isOpen, err := g.IsOpen(r, c)
			if err != nil {
				return "", err
			}
			if isOpen {
				b.WriteString(open)
			} else {
				b.WriteString(closed)
			}
		}
		lines = append(lines, b.String())
	}

	return strings.Join(lines, "\n"), nil
}

// Rows 按 ASCII 样式逐行渲染，不带坐标轴，供 JSON 快照使用
func Rows(g Grid) ([]string, error) {
	out, err := Render(g, ASCII, false)
	if err != nil {
		return nil, err
	}
	return strings.Split(out, "\n"), nil
}
