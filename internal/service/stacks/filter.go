package stacks

import (
	"slices"
	"sort"

	"cdkdeploy/internal/service/params"
)

// EnvKeys は選択肢として提示する環境キーを返す（Singletonは除外、昇順）
func (idx Index) EnvKeys() []string {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		if params.IsSingleton(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has は環境キーが既にデプロイ済みか判定する
func (idx Index) Has(envKey string) bool {
	_, ok := idx[envKey]
	return ok
}

// Unmanaged はデプロイ済みだが現在のCDKアプリに存在しないスタックを返す
func (idx Index) Unmanaged(envKey string, listed []string) []string {
	var result []string
	for _, name := range idx[envKey] {
		if !slices.Contains(listed, name) {
			result = append(result, name)
		}
	}
	return result
}
