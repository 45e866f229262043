package prompt

import (
	"strconv"
	"strings"

	"cdkdeploy/internal/service/common"

	"github.com/cockroachdb/errors"
)

// parseSelection は複数選択の入力を解釈し、選択肢の順序で返す
func parseSelection(line string, choices []string) ([]string, error) {
	picked := make([]bool, len(choices))

	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, tok := range tokens {
		if strings.EqualFold(tok, "all") {
			for i := range picked {
				picked[i] = true
			}
			continue
		}
		if err := pickToken(tok, choices, picked); err != nil {
			return nil, err
		}
	}

	selected := make([]string, 0, len(choices))
	for i, ok := range picked {
		if ok {
			selected = append(selected, choices[i])
		}
	}
	return selected, nil
}

func pickToken(tok string, choices []string, picked []bool) error {
	if n, err := strconv.Atoi(tok); err == nil {
		if n < 1 || n > len(choices) {
			return errors.Newf("範囲外の番号です: %d", n)
		}
		picked[n-1] = true
		return nil
	}

	if from, to, ok := strings.Cut(tok, "-"); ok {
		start, errStart := strconv.Atoi(from)
		end, errEnd := strconv.Atoi(to)
		if errStart == nil && errEnd == nil {
			if start < 1 || end > len(choices) || start > end {
				return errors.Newf("不正な範囲です: %s", tok)
			}
			for i := start; i <= end; i++ {
				picked[i-1] = true
			}
			return nil
		}
	}

	// 番号でなければスタック名またはパターンとして扱う
	matched := false
	for i, c := range choices {
		if common.MatchPattern(c, tok) {
			picked[i] = true
			matched = true
		}
	}
	if !matched {
		return errors.Newf("一致するスタックがありません: %s", tok)
	}
	return nil
}
