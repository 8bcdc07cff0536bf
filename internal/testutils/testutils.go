package testutils

import (
	"strings"
	"testing"

	"percolation_tool/pkg/percolation"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// 网格字符画约定:
//   '#' 关闭的格子
//   '.' '~' 'o' 打开的格子('~' 只是为了和渲染结果对照，解析时不区分)
// 空行和行首尾空白忽略

// Opener 是能按坐标打开格子的对象
type Opener interface {
	Open(row, col int) error
}

// ParseGrid 把字符画解析成网格尺寸和按行优先顺序排列的打开格子
func ParseGrid(t testing.TB, art string) (int, int, []percolation.Site) {
	t.Helper()

	var lines []string
	for _, line := range strings.Split(art, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		t.Fatalf("字符画为空")
	}

	cols := len(lines[0])
	var sites []percolation.Site
	for r, line := range lines {
		if len(line) != cols {
			t.Fatalf("第 %d 行长度 %d，期望 %d", r+1, len(line), cols)
		}
		for c, ch := range line {
			switch ch {
			case '#':
			case '.', '~', 'o':
				sites = append(sites, percolation.Site{Row: r + 1, Col: c + 1})
			default:
				t.Fatalf("第 %d 行出现未知字符 %q", r+1, ch)
			}
		}
	}
	return len(lines), cols, sites
}

// NewFromArt 根据字符画创建网格并打开对应格子
func NewFromArt(t testing.TB, art string) *percolation.Percolation {
	t.Helper()

	rows, cols, sites := ParseGrid(t, art)
	p, err := percolation.New(rows, cols)
	if err != nil {
		t.Fatalf("创建网格失败: %v", err)
	}
	OpenAll(t, p, sites)
	return p
}

// OpenAll 依次打开所有格子，任何一个失败都直接终止用例
func OpenAll(t testing.TB, o Opener, sites []percolation.Site) {
	t.Helper()

	for _, s := range sites {
		if err := o.Open(s.Row, s.Col); err != nil {
			t.Fatalf("打开 %v 失败: %v", s, err)
		}
	}
}

// AssertText 比较两段多行文本，不一致时打印字符级差异
func AssertText(t testing.TB, want, got string) bool {
	t.Helper()

	if want == got {
		return true
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Errorf("文本不一致:\n--- want\n%s\n--- got\n%s\n--- diff\n%s",
		want, got, dmp.DiffPrettyText(diffs))
	return false
}
