package params

import "sort"

// KeysDiffer はaとbのキー集合が異なるか判定する（どちらか一方にしかないキーがあればtrue）
func KeysDiffer(a, b Parameters) bool {
	for k := range a {
		if _, ok := b[k]; !ok {
			return true
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			return true
		}
	}
	return false
}

// Merge はdefaultsのキーごとに、overridesに空でない値があればそれを、なければ既定値を採用する
// overridesにしかないキーは捨てるため、結果のキー集合は常にdefaultsと一致する
func Merge(defaults, overrides Parameters) Parameters {
	merged := make(Parameters, len(defaults))
	for k, v := range defaults {
		if o := overrides[k]; o != "" {
			merged[k] = o
			continue
		}
		merged[k] = v
	}
	return merged
}

// Keys はキーを昇順で返す
func (p Parameters) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
