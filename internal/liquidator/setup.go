package liquidator

import (
	"fmt"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
)

// PrimeModule 负责自动迁移扫描审计的表结构
func PrimeModule() error {
	if err := database.DB.AutoMigrate(&ScanRecord{}); err != nil {
		return fmt.Errorf("无法迁移scan_records表: %w", err)
	}
	fmt.Println("扫描审计数据库表迁移成功。")
	return nil
}
