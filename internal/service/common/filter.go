package common

import (
	"strings"

	"github.com/gobwas/glob"
)

// MatchPattern はワイルドカードパターンマッチングを行う
// ワイルドカード（* ? [ {）を含む場合はglob形式でマッチング、
// 含まない場合は完全一致で判定する
func MatchPattern(name, pattern string) bool {
	if !HasWildcard(pattern) {
		return name == pattern
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		return false
	}
	return g.Match(name)
}

// HasWildcard はパターンにglobのメタ文字が含まれるか判定する
func HasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
