// Package rng 提供排班引擎使用的确定性随机数源。
//
// 与教师代码中 optimizer 包里持有 *rand.Rand 并以 time.Now().UnixNano()
// 播种的做法不同，这里唯一的构造方式是显式传入种子：同一个
// (Config, holidays) 输入必须产生逐字节相同的输出，因此随机性的
// 唯一来源必须完全可复现。
package rng

import "math/rand"

// RNG 包装 *rand.Rand，只暴露调度器实际需要的方法
type RNG struct {
	r *rand.Rand
}

// New 用给定种子构造一个 RNG。这是唯一的构造函数。
func New(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Reseed 替换底层随机源为新的种子，用于回溯重试
func (g *RNG) Reseed(seed int64) {
	g.r = rand.New(rand.NewSource(seed))
}

// Float64 返回 [0.0,1.0) 内的随机数
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// Intn 返回 [0,n) 内的随机整数
func (g *RNG) Intn(n int) int {
	return g.r.Intn(n)
}

// Shuffle 就地打乱长度为 n 的序列，swap 交换索引 i、j 处的元素
func (g *RNG) Shuffle(n int, swap func(i, j int)) {
	g.r.Shuffle(n, swap)
}

// BacktrackSeed 按规范的确定性公式计算回溯重试使用的种子：
// seed + attempts*1000 + day_idx
func BacktrackSeed(seed int64, attempts, dayIdx int) int64 {
	return seed + int64(attempts)*1000 + int64(dayIdx)
}
