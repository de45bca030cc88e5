package port

// Random 随机源，IntRange 返回 [min, max] 闭区间内的整数
type Random interface {
	IntRange(min, max int) int
}
