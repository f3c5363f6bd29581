package ledger

import (
	"fmt"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
)

// PrimeModule 负责自动迁移动作台账的表结构
func PrimeModule() error {
	if err := database.DB.AutoMigrate(&Action{}); err != nil {
		return fmt.Errorf("无法迁移action_ledger表: %w", err)
	}
	fmt.Println("动作台账数据库表迁移成功。")
	return nil
}
