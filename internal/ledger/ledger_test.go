package ledger

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/chapter"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	if err != nil {
		t.Fatalf("无法打开内存数据库: %v", err)
	}
	if err := db.AutoMigrate(&Action{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	database.DB = db
	database.UpdateStatus(false, "")
}

// TestConsumeOnce 确认同一 (用户, 章节, 种类) 组合只能记账一次，
// 第二次返回 ErrAlreadyConsumed。
func TestConsumeOnce(t *testing.T) {
	setupTestDB(t)

	if err := Consume(database.DB, "vonn", chapter.Chapter1, KindLiquidatorScan); err != nil {
		t.Fatalf("首次记账失败: %v", err)
	}
	err := Consume(database.DB, "vonn", chapter.Chapter1, KindLiquidatorScan)
	if !errors.Is(err, ErrAlreadyConsumed) {
		t.Fatalf("重复记账应返回 ErrAlreadyConsumed，实际 %v", err)
	}
}

// TestConsumeScopedByChapter 确认额度以章节为单位：
// 新章节重新打开一次使用机会。
func TestConsumeScopedByChapter(t *testing.T) {
	setupTestDB(t)

	if err := Consume(database.DB, "vonn", chapter.Chapter1, KindApostateAbility); err != nil {
		t.Fatalf("第一章记账失败: %v", err)
	}
	if err := Consume(database.DB, "vonn", chapter.Chapter2, KindApostateAbility); err != nil {
		t.Fatalf("第二章应有新的额度: %v", err)
	}
}

// TestConsumeScopedByKindAndUser 确认不同种类、不同用户的额度互不影响。
func TestConsumeScopedByKindAndUser(t *testing.T) {
	setupTestDB(t)

	if err := Consume(database.DB, "vonn", chapter.Chapter1, KindApostateAbility); err != nil {
		t.Fatalf("记账失败: %v", err)
	}
	if err := Consume(database.DB, "vonn", chapter.Chapter1, KindLiquidatorScan); err != nil {
		t.Fatalf("不同种类应有独立额度: %v", err)
	}
	if err := Consume(database.DB, "mika", chapter.Chapter1, KindApostateAbility); err != nil {
		t.Fatalf("不同用户应有独立额度: %v", err)
	}
}

// TestHasConsumed 确认只读查询反映记账状态且不消耗额度。
func TestHasConsumed(t *testing.T) {
	setupTestDB(t)

	used, err := HasConsumed("vonn", chapter.None, KindScreening)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if used {
		t.Fatal("未记账前不应显示已消耗")
	}

	if err := Consume(database.DB, "vonn", chapter.None, KindScreening); err != nil {
		t.Fatalf("记账失败: %v", err)
	}

	used, err = HasConsumed("vonn", chapter.None, KindScreening)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if !used {
		t.Fatal("记账后应显示已消耗")
	}
}

// TestConsumeRollbackInTransaction 确认事务回滚连同记账一起撤销：
// 效果结算失败时，额度不会被白白扣掉。
func TestConsumeRollbackInTransaction(t *testing.T) {
	setupTestDB(t)

	sentinel := errors.New("结算失败")
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := Consume(tx, "vonn", chapter.Chapter1, KindApostateAbility); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("事务应以结算错误失败，实际 %v", err)
	}

	// 回滚后额度仍然可用
	if err := Consume(database.DB, "vonn", chapter.Chapter1, KindApostateAbility); err != nil {
		t.Fatalf("回滚后的额度应可再次消耗: %v", err)
	}
}
