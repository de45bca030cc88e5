package utils

import "math/rand/v2"

// Random 基于 math/rand/v2 的默认随机源
type Random struct{}

// IntRange 返回 [min, max] 闭区间内的均匀随机整数
func (Random) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.IntN(max-min+1)
}
