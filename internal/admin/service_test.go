package admin

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/chapter"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/user"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	if err != nil {
		t.Fatalf("无法打开内存数据库: %v", err)
	}
	if err := db.AutoMigrate(&user.User{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	database.DB = db
	database.UpdateStatus(false, "")
}

func seedUser(t *testing.T, username, faction, role, chapterTag string, highAffinity bool) {
	t.Helper()
	u := user.User{
		Username:                username,
		SimplePassword:          "pw",
		Faction:                 faction,
		Role:                    role,
		ChapterAssigned:         chapterTag,
		IsHighAffinityCandidate: highAffinity,
		Inventory:               "[]",
	}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatalf("无法写入测试用户 %s: %v", username, err)
	}
}

// TestStatsCohortsAreDisjoint 确认四个统计群体互不重叠：
// 已获得身份的高适性用户只计入身份群体，不再计入候选者。
func TestStatsCohortsAreDisjoint(t *testing.T) {
	setupTestDB(t)

	// 候选者：高适性且仍为公民
	seedUser(t, "c1", user.FactionTurbid, user.RoleCitizen, chapter.None, true)
	seedUser(t, "c2", user.FactionPure, user.RoleCitizen, chapter.None, true)
	// 已是背道者的高适性用户不再是候选者
	seedUser(t, "a1", user.FactionTurbid, user.RoleApostate, chapter.Chapter1, true)
	seedUser(t, "a2", user.FactionPure, user.RoleApostate, chapter.Chapter3, true)
	// 清算人与普通公民
	seedUser(t, "l1", user.FactionTurbid, user.RoleLiquidator, chapter.Chapter2, false)
	seedUser(t, "p1", user.FactionPure, user.RoleCitizen, chapter.None, false)

	stats, err := GetStats()
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}

	if stats.Candidates.Turbid != 1 || stats.Candidates.Pure != 1 {
		t.Fatalf("候选者统计不正确: %+v", stats.Candidates)
	}
	if stats.ApostatesCh1.Turbid != 1 || stats.ApostatesCh1.Pure != 0 {
		t.Fatalf("第一章背道者统计不正确: %+v", stats.ApostatesCh1)
	}
	if stats.ApostatesCh3.Turbid != 0 || stats.ApostatesCh3.Pure != 1 {
		t.Fatalf("第三章背道者统计不正确: %+v", stats.ApostatesCh3)
	}
	if stats.Liquidators.Turbid != 1 || stats.Liquidators.Pure != 0 {
		t.Fatalf("清算人统计不正确: %+v", stats.Liquidators)
	}
}

// TestCandidatesListAndAnomalyRange 确认候选者列表只含仍为公民的
// 高适性用户，且异常度展示值落在60%-95%区间。
func TestCandidatesListAndAnomalyRange(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "keen", user.FactionTurbid, user.RoleCitizen, chapter.None, true)
	seedUser(t, "gone", user.FactionTurbid, user.RoleApostate, chapter.Chapter1, true)
	seedUser(t, "dull", user.FactionPure, user.RoleCitizen, chapter.None, false)

	views, err := GetCandidates()
	if err != nil {
		t.Fatalf("读取候选者失败: %v", err)
	}
	if len(views) != 1 || views[0].Username != "keen" {
		t.Fatalf("候选者列表不正确: %+v", views)
	}

	raw := strings.TrimSuffix(views[0].Anomaly, "%")
	pct, err := strconv.Atoi(raw)
	if err != nil {
		t.Fatalf("异常度格式不正确: %s", views[0].Anomaly)
	}
	if pct < 60 || pct > 95 {
		t.Fatalf("异常度 %d 超出 [60,95] 区间", pct)
	}
}

// TestRegistryUsesLegacyIdentityLabels 确认全员名册沿用旧版身份标签。
func TestRegistryUsesLegacyIdentityLabels(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "a1", user.FactionTurbid, user.RoleApostate, chapter.Chapter1, true)
	seedUser(t, "a3", user.FactionPure, user.RoleApostate, chapter.Chapter3, true)
	seedUser(t, "liq", user.FactionTurbid, user.RoleLiquidator, chapter.Chapter2, false)
	seedUser(t, "cit", user.FactionPure, user.RoleCitizen, chapter.None, false)

	views, err := GetRegistry()
	if err != nil {
		t.Fatalf("读取名册失败: %v", err)
	}

	labels := make(map[string]string, len(views))
	for _, v := range views {
		labels[v.Username] = v.IdentityRole
	}

	want := map[string]string{
		"a1":  "apostate_ch1",
		"a3":  "apostate_ch3",
		"liq": "liquidator",
		"cit": "citizen",
	}
	for name, label := range want {
		if labels[name] != label {
			t.Fatalf("用户 %s 的身份标签应为 %s，实际 %s", name, label, labels[name])
		}
	}
}
