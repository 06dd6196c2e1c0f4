package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Option 菜单中的一个可选项
type Option struct {
	Key   string
	Label string
	Value string
}

// Question 一次交互式提问的声明式描述。
// 输入为空或无法识别时回退到 Default，不报错。
type Question struct {
	Text        string
	Options     []Option
	Default     string
	AllowCustom bool // 未命中菜单项时把原始输入当作自定义值
}

type Reader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewReader(in io.Reader, out io.Writer) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (r *Reader) readLine() string {
	if !r.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(r.scanner.Text())
}

// Ask 展示菜单并读取选择，返回选中项的Value
func (r *Reader) Ask(q Question) string {
	fmt.Fprintln(r.out, q.Text)
	for _, opt := range q.Options {
		fmt.Fprintf(r.out, "  %s) %s\n", opt.Key, opt.Label)
	}
	fmt.Fprint(r.out, "> ")

	input := r.readLine()
	if input == "" {
		return q.Default
	}

	for _, opt := range q.Options {
		if input == opt.Key {
			return opt.Value
		}
	}

	if q.AllowCustom {
		return input
	}
	return q.Default
}

// AskYesNo y/n 提问，空输入或无法识别时返回默认值
func (r *Reader) AskYesNo(text string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(r.out, "%s [%s] > ", text, hint)

	switch strings.ToLower(r.readLine()) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

// AskInt 读取整数，空输入或解析失败时返回默认值。
// 范围合法性由调用方决定，这里不做检查。
func (r *Reader) AskInt(text string, def int) int {
	fmt.Fprintf(r.out, "%s [%d] > ", text, def)

	input := r.readLine()
	if input == "" {
		return def
	}

	value, err := strconv.Atoi(input)
	if err != nil {
		return def
	}
	return value
}
