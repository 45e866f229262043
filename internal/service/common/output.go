package common

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// 出力の色付け（chalk相当）
var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Gray   = color.New(color.FgHiBlack).SprintFunc()
)

// PrintNumberedList は番号付きリストを表示
func PrintNumberedList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "%s:\n", title)
	for i, item := range items {
		fmt.Fprintf(w, "  %3d. %s\n", i+1, item)
	}
}

// PrintSimpleList はシンプルな箇条書きリストを表示
func PrintSimpleList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

// FormatJSON はキー順に整形したJSON文字列を返す
func FormatJSON(values map[string]string) string {
	if values == nil {
		values = map[string]string{}
	}
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		// map[string]string のエンコードは失敗しない
		return fmt.Sprint(values)
	}
	return string(b)
}
