package admin

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/chapter"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/user"
)

// FactionCount 是单个身份群体按阵营拆分的人数。
type FactionCount struct {
	Turbid int64 `json:"turbid"`
	Pure   int64 `json:"pure"`
}

// Stats 是管理面板的身份分布统计，四个群体互不相交。
type Stats struct {
	Candidates   FactionCount `json:"candidates"`
	ApostatesCh1 FactionCount `json:"apostatesCh1"`
	ApostatesCh3 FactionCount `json:"apostatesCh3"`
	Liquidators  FactionCount `json:"liquidators"`
}

// CandidateView 是候选者审查列表的一行。
// Anomaly 是装饰性的异常度展示值，不持久化。
type CandidateView struct {
	Username string `json:"username"`
	Faction  string `json:"faction"`
	Anomaly  string `json:"anomaly"`
}

// RegistryView 是全员名册的一行，沿用旧版身份标签的词汇。
type RegistryView struct {
	Username     string `json:"username"`
	Faction      string `json:"faction"`
	IdentityRole string `json:"identity_role"`
}

// anomalyRNG 用于生成候选者列表的装饰性异常度。
var anomalyRNG = rand.New(rand.NewSource(time.Now().UnixNano()))

// countCohort 统计满足条件的用户按阵营拆分的人数。
func countCohort(query string, args ...interface{}) (FactionCount, error) {
	var fc FactionCount
	err := database.DB.Model(&user.User{}).
		Where(query, args...).Where("faction = ?", user.FactionTurbid).
		Count(&fc.Turbid).Error
	if err != nil {
		return fc, fmt.Errorf("统计身份分布失败: %w", err)
	}
	err = database.DB.Model(&user.User{}).
		Where(query, args...).Where("faction = ?", user.FactionPure).
		Count(&fc.Pure).Error
	if err != nil {
		return fc, fmt.Errorf("统计身份分布失败: %w", err)
	}
	return fc, nil
}

// computeStats 从SQLite计算完整的身份分布统计。
func computeStats() (*Stats, error) {
	var stats Stats
	var err error

	if stats.Candidates, err = countCohort(
		"is_high_affinity_candidate = ? AND role = ?", true, user.RoleCitizen); err != nil {
		return nil, err
	}
	if stats.ApostatesCh1, err = countCohort(
		"role = ? AND chapter_assigned = ?", user.RoleApostate, chapter.Chapter1); err != nil {
		return nil, err
	}
	if stats.ApostatesCh3, err = countCohort(
		"role = ? AND chapter_assigned = ?", user.RoleApostate, chapter.Chapter3); err != nil {
		return nil, err
	}
	if stats.Liquidators, err = countCohort("role = ?", user.RoleLiquidator); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetStats 返回身份分布统计，优先走Redis缓存。
// 缓存不可用或未命中时回退到SQLite，并尝试回填缓存。
func GetStats() (*Stats, error) {
	if database.IsRedisHealthy() {
		cached, err := database.RDB.Get(database.Ctx, StatsCacheKey).Result()
		if err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats, err := computeStats()
	if err != nil {
		return nil, err
	}

	if database.IsRedisHealthy() {
		if payload, err := json.Marshal(stats); err == nil {
			if err := database.RDB.Set(database.Ctx, StatsCacheKey, payload, statsCacheTTL).Err(); err != nil {
				fmt.Printf("警告: 回填统计缓存失败: %v\n", err)
			}
		}
	}
	return stats, nil
}

// InvalidateStatsCache 在抽选或重置改变身份分布后使缓存失效。
func InvalidateStatsCache() {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.Del(database.Ctx, StatsCacheKey).Err(); err != nil {
		fmt.Printf("警告: 无法失效统计缓存: %v\n", err)
	}
}

// GetCandidates 返回仍为公民的高适性候选者列表。
func GetCandidates() ([]CandidateView, error) {
	var users []user.User
	err := database.DB.
		Where("is_high_affinity_candidate = ? AND role = ?", true, user.RoleCitizen).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("读取候选者列表失败: %w", err)
	}

	views := make([]CandidateView, 0, len(users))
	for _, u := range users {
		views = append(views, CandidateView{
			Username: u.Username,
			Faction:  u.Faction,
			// 60%-95%的装饰性异常度，仅用于审查界面的可视化
			Anomaly: fmt.Sprintf("%d%%", 60+anomalyRNG.Intn(35)),
		})
	}
	return views, nil
}

// GetRegistry 返回全员名册。
func GetRegistry() ([]RegistryView, error) {
	var users []user.User
	if err := database.DB.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("读取全员名册失败: %w", err)
	}

	views := make([]RegistryView, 0, len(users))
	for _, u := range users {
		views = append(views, RegistryView{
			Username:     u.Username,
			Faction:      u.Faction,
			IdentityRole: u.IdentityRole(),
		})
	}
	return views, nil
}
