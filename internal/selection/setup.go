package selection

import (
	"fmt"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
)

// PrimeModule 负责自动迁移抽选记录的表结构
func PrimeModule() error {
	if err := database.DB.AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("无法迁移selection_runs表: %w", err)
	}
	fmt.Println("抽选记录数据库表迁移成功。")
	return nil
}
