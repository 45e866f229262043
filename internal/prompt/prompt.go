// Package prompt は標準入出力を使った対話プロンプトを提供する。
// 入力は行単位で読み込み、不正な入力は再入力を求める。
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cdkdeploy/internal/service/common"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-runewidth"
)

// ErrInputClosed は入力が終端に達した場合のエラー
var ErrInputClosed = errors.New("input closed")

// Field は複数項目入力の1項目
type Field struct {
	Name    string
	Message string
}

// Prompter は対話形式で選択・入力を受け付ける
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New はPrompterを作成する
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine は1行読み込み、前後の空白を取り除く
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errors.WithStack(ErrInputClosed)
		}
		return "", errors.Wrap(err, "reading input")
	}
	return strings.TrimSpace(line), nil
}

// Select は選択肢から1つを番号で選ばせる
func (p *Prompter) Select(message string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", errors.Newf("no choices for %q", message)
	}
	for {
		common.PrintNumberedList(p.out, "? "+message, choices)
		fmt.Fprintf(p.out, "番号を入力してください (1-%d): ", len(choices))

		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		fmt.Fprintf(p.out, "%s 無効な選択です: %q\n", common.WarningIcon, line)
	}
}

// MultiSelect は選択肢から1つ以上を選ばせる
// 番号（カンマ・空白区切り）、範囲（1-3）、all、グロブパターン（Dev*）を受け付ける
// 何も選ばれなかった場合は空のスライスを返す
func (p *Prompter) MultiSelect(message string, choices []string) ([]string, error) {
	for {
		common.PrintNumberedList(p.out, "? "+message, choices)
		fmt.Fprint(p.out, "番号・範囲・パターン・all のいずれかを入力してください: ")

		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		selected, err := parseSelection(line, choices)
		if err != nil {
			fmt.Fprintf(p.out, "%s %v\n", common.WarningIcon, err)
			continue
		}
		return selected, nil
	}
}

// Input は1行の入力を受け付ける。空入力の場合は initial を返す
func (p *Prompter) Input(message, initial string) (string, error) {
	if initial != "" {
		fmt.Fprintf(p.out, "? %s (%s): ", message, initial)
	} else {
		fmt.Fprintf(p.out, "? %s: ", message)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return initial, nil
	}
	return line, nil
}

// Confirm は y/N で確認する。y / yes 以外は false
func (p *Prompter) Confirm(message string) (bool, error) {
	fmt.Fprintf(p.out, "? %s [y/N]: ", message)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Fields は項目ごとに値を入力させる
// 空入力の項目は結果に含めない（呼び出し側で既定値を補完する）
func (p *Prompter) Fields(message string, fields []Field) (map[string]string, error) {
	fmt.Fprintf(p.out, "? %s\n", message)

	width := 0
	for _, f := range fields {
		if w := runewidth.StringWidth(f.Name); w > width {
			width = w
		}
	}

	values := make(map[string]string, len(fields))
	for _, f := range fields {
		fmt.Fprintf(p.out, "  %s (%s): ", runewidth.FillRight(f.Name, width), f.Message)
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if line != "" {
			values[f.Name] = line
		}
	}
	return values, nil
}
