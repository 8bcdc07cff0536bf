package percolation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize 行数或列数小于 1，构造失败
	ErrInvalidSize = errors.New("percolation: 行数和列数都必须 >= 1")
	// ErrOutOfRange 坐标不在 [1,rows]x[1,cols] 范围内
	ErrOutOfRange = errors.New("percolation: 坐标越界")
)

// RangeError 描述具体是哪个坐标越界，以及是太大还是太小
// errors.Is(err, ErrOutOfRange) 对所有 RangeError 成立
type RangeError struct {
	Axis     string // "row" 或者 "col"
	Value    int    // 调用方传入的值
	Limit    int    // 该方向上允许的最大值
	TooLarge bool
}

func (e *RangeError) Error() string {
	if e.TooLarge {
		return fmt.Sprintf("percolation: %s %d 太大(最大 %d)", e.Axis, e.Value, e.Limit)
	}
	return fmt.Sprintf("percolation: %s %d 太小(最小 1)", e.Axis, e.Value)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
