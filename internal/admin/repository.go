package admin

import "time"

// --- Redis 键名常量 ---

const (
	// StatsCacheKey 是一个 Redis String 的键，缓存管理面板的
	// 身份分布统计（JSON）。SQLite才是权威数据，缓存只为吸收
	// 管理界面的轮询压力。
	StatsCacheKey = "admin:stats"

	// statsCacheTTL 是统计缓存的有效期。抽选与重置会主动失效缓存，
	// TTL只是兜底。
	statsCacheTTL = 30 * time.Second
)
