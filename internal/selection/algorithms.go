package selection

import (
	"fmt"
	"math/rand"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/user"
)

// 仪式偏移值的展示区间（Hz）。纯装饰数据，不落库、不参与任何后续逻辑。
const (
	deviationMin = 15.0
	deviationMax = 25.0
)

// pickRandom 从候选切片中等概率无放回地抽取至多n人。
// 使用部分Fisher-Yates洗牌：只洗前n个位置，O(n)而非全量洗牌。
// 候选不足n人时全部入选，绝不跨阵营补位。
func pickRandom(candidates []user.User, n int, rng *rand.Rand) []user.User {
	if n > len(candidates) {
		n = len(candidates)
	}
	if n <= 0 {
		return nil
	}

	picked := make([]user.User, len(candidates))
	copy(picked, candidates)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:n]
}

// splitByFaction 把候选集按阵营分为两组。
func splitByFaction(candidates []user.User) (turbid, pure []user.User) {
	for _, u := range candidates {
		switch u.Faction {
		case user.FactionTurbid:
			turbid = append(turbid, u)
		case user.FactionPure:
			pure = append(pure, u)
		}
	}
	return turbid, pure
}

// pickPerFaction 实现对称配额抽选：两个阵营各抽取至多quota人后合并。
func pickPerFaction(candidates []user.User, quota int, rng *rand.Rand) []user.User {
	turbid, pure := splitByFaction(candidates)
	selected := pickRandom(turbid, quota, rng)
	return append(selected, pickRandom(pure, quota, rng)...)
}

// rollDeviation 生成一个装饰用的仪式偏移值，如 "19.73Hz"。
func rollDeviation(rng *rand.Rand) string {
	return fmt.Sprintf("%.2fHz", deviationMin+rng.Float64()*(deviationMax-deviationMin))
}
