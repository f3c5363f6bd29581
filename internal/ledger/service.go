package ledger

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
)

// ErrAlreadyConsumed 表示该 (用户, 章节, 种类) 组合已经记过账。
// 调用方必须把它与临时失败区分开：拿到这个错误说明动作确实发生过，
// 不应该提示用户重试。
var ErrAlreadyConsumed = errors.New("该动作已被使用")

// Consume 在给定事务内尝试消耗一次动作额度。
// 采用插入时冲突忽略（ON CONFLICT DO NOTHING），再根据受影响行数
// 判断是否真的消耗成功；整个判定在一条语句内完成，无竞态窗口。
func Consume(tx *gorm.DB, username, chapterTag, kind string) error {
	entry := Action{
		Username: username,
		Chapter:  chapterTag,
		Kind:     kind,
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if result.Error != nil {
		return fmt.Errorf("写入动作台账失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyConsumed
	}
	return nil
}

// HasConsumed 查询一次动作额度是否已被消耗（只读，不改变台账）。
func HasConsumed(username, chapterTag, kind string) (bool, error) {
	var count int64
	err := database.DB.Model(&Action{}).
		Where("username = ? AND chapter = ? AND kind = ?", username, chapterTag, kind).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询动作台账失败: %w", err)
	}
	return count > 0, nil
}
