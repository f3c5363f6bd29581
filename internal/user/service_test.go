package user

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/chapter"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/config"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
)

func setupTestDB(t *testing.T, whitelist []string) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	if err != nil {
		t.Fatalf("无法打开内存数据库: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	database.DB = db
	database.UpdateStatus(false, "")
	config.Cfg = &config.Config{Game: config.GameConfig{
		Whitelist:      whitelist,
		DailyCoinLimit: 15,
	}}
}

// TestLoginAutoRegisters 确认首次登录自动建档，身份为公民。
func TestLoginAutoRegisters(t *testing.T) {
	setupTestDB(t, nil)

	u, err := LoginOrRegister("nomad", "secret", FactionTurbid)
	if err != nil {
		t.Fatalf("首次登录失败: %v", err)
	}
	if u.Role != RoleCitizen || u.Faction != FactionTurbid {
		t.Fatalf("新用户建档不正确: %+v", u)
	}

	// 再次登录校验口令，忽略faction参数
	again, err := LoginOrRegister("nomad", "secret", FactionPure)
	if err != nil {
		t.Fatalf("再次登录失败: %v", err)
	}
	if again.Faction != FactionTurbid {
		t.Fatalf("阵营在建档后不可变，实际 %s", again.Faction)
	}

	if _, err := LoginOrRegister("nomad", "wrong", FactionTurbid); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("错误口令应返回 ErrWrongPassword，实际 %v", err)
	}
}

// TestLoginWhitelistAndFaction 确认白名单与阵营校验。
func TestLoginWhitelistAndFaction(t *testing.T) {
	setupTestDB(t, []string{"vetted"})

	if _, err := LoginOrRegister("stranger", "pw", FactionTurbid); !errors.Is(err, ErrNotWhitelisted) {
		t.Fatalf("名单外用户应返回 ErrNotWhitelisted，实际 %v", err)
	}
	if _, err := LoginOrRegister("vetted", "pw", "Neutral"); !errors.Is(err, ErrInvalidFaction) {
		t.Fatalf("非法阵营应返回 ErrInvalidFaction，实际 %v", err)
	}
	if _, err := LoginOrRegister("vetted", "pw", FactionPure); err != nil {
		t.Fatalf("名单内用户注册应成功: %v", err)
	}
}

// TestDuplicateUsernameTranslated 确认重复OC名的插入冲突被翻译为
// gorm.ErrDuplicatedKey。并发注册的回退路径（退回读取既有记录）
// 依赖这一翻译，驱动原始的约束错误匹配不到。
func TestDuplicateUsernameTranslated(t *testing.T) {
	setupTestDB(t, nil)
	if _, err := LoginOrRegister("dup", "pw", FactionTurbid); err != nil {
		t.Fatalf("建档失败: %v", err)
	}

	err := database.DB.Create(&User{
		Username:       "dup",
		SimplePassword: "other",
		Faction:        FactionPure,
		Role:           RoleCitizen,
		Inventory:      "[]",
	}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("重复插入应翻译为 gorm.ErrDuplicatedKey，实际 %v", err)
	}

	// 既有用户凭正确口令仍可登录，记录未被覆盖
	u, err := LoginOrRegister("dup", "pw", FactionTurbid)
	if err != nil {
		t.Fatalf("冲突后的登录失败: %v", err)
	}
	if u.Faction != FactionTurbid {
		t.Fatalf("既有记录被覆盖: %+v", u)
	}
}

// TestAwardCoinsHonorsDailyLimit 确认碎钱发放遵守每日上限并截断超额部分。
func TestAwardCoinsHonorsDailyLimit(t *testing.T) {
	setupTestDB(t, nil)
	if _, err := LoginOrRegister("miner", "pw", FactionTurbid); err != nil {
		t.Fatalf("建档失败: %v", err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		awarded, err := AwardCoins(tx, "miner", 10)
		if err != nil {
			return err
		}
		if awarded != 10 {
			t.Fatalf("上限内发放应足额，实际 %d", awarded)
		}

		// 剩余额度只剩5，超额部分被截断
		awarded, err = AwardCoins(tx, "miner", 10)
		if err != nil {
			return err
		}
		if awarded != 5 {
			t.Fatalf("超出上限应截断为5，实际 %d", awarded)
		}

		awarded, err = AwardCoins(tx, "miner", 1)
		if err != nil {
			return err
		}
		if awarded != 0 {
			t.Fatalf("达到上限后发放量应为0，实际 %d", awarded)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("发放事务失败: %v", err)
	}

	u, _ := GetByUsername("miner")
	if u.Coins != 15 || u.DailyCoinEarned != 15 {
		t.Fatalf("入账不正确: coins=%d earned=%d", u.Coins, u.DailyCoinEarned)
	}
}

// TestIdentityRoleLabels 确认旧版身份标签的派生规则。
func TestIdentityRoleLabels(t *testing.T) {
	cases := []struct {
		role       string
		chapterTag string
		want       string
	}{
		{RoleCitizen, "", "citizen"},
		{RoleApostate, chapter.Chapter1, "apostate_ch1"},
		{RoleApostate, chapter.Chapter3, "apostate_ch3"},
		{RoleApostate, "", "apostate"},
		{RoleLiquidator, chapter.Chapter2, "liquidator"},
	}
	for _, tc := range cases {
		u := User{Role: tc.role, ChapterAssigned: tc.chapterTag}
		if got := u.IdentityRole(); got != tc.want {
			t.Fatalf("role=%s chapter=%q 的标签应为 %s，实际 %s", tc.role, tc.chapterTag, tc.want, got)
		}
	}
}
