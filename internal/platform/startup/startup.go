package startup

import (
	"fmt"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/admin"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/apostate"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/ledger"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/liquidator"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/selection"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口。
// 按依赖顺序初始化各模块：user是叶子，其余模块都读写它。
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := user.PrimeCachedDB(); err != nil {
		return err
	}
	if err := ledger.PrimeModule(); err != nil {
		return err
	}
	if err := selection.PrimeModule(); err != nil {
		return err
	}
	if err := apostate.PrimeModule(); err != nil {
		return err
	}
	if err := liquidator.PrimeModule(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 在运行时热重建Redis缓存。
// 由健康检查器在检测到Redis重启后调用。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	err := func() error {
		user.LockRepository()
		defer user.UnlockRepository()
		return user.WarmupCache()
	}()
	if err != nil {
		return err
	}

	// 统计缓存直接丢弃，下次请求时从SQLite重建
	admin.InvalidateStatsCache()

	fmt.Println("缓存热重建完成。")
	return nil
}
