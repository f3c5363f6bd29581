package apostate

import (
	"fmt"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
)

// PrimeModule 负责自动迁移能力指派的表结构
func PrimeModule() error {
	if err := database.DB.AutoMigrate(&AbilityAssignment{}); err != nil {
		return fmt.Errorf("无法迁移ability_assignments表: %w", err)
	}
	fmt.Println("能力指派数据库表迁移成功。")
	return nil
}
