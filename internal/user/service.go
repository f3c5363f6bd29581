package user

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/config"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
)

// ErrUserNotFound 表示目标OC名不存在。
var ErrUserNotFound = errors.New("用户不存在")

// ErrWrongPassword 表示口令与已注册用户不匹配。
var ErrWrongPassword = errors.New("憑證不符，記憶與靈魂無法匹配")

// ErrNotWhitelisted 表示OC名不在允许注册的名单中。
var ErrNotWhitelisted = errors.New("身份尚未核實")

// ErrInvalidFaction 表示阵营取值非法。
var ErrInvalidFaction = errors.New("无效的阵营")

// GetByUsername 按OC名读取完整用户记录。
func GetByUsername(username string) (*User, error) {
	var u User
	err := database.DB.Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}

// isWhitelisted 检查OC名是否允许注册。名单为空时放行所有人。
func isWhitelisted(username string) bool {
	list := config.Cfg.Game.Whitelist
	if len(list) == 0 {
		return true
	}
	for _, name := range list {
		if name == username {
			return true
		}
	}
	return false
}

// LoginOrRegister 实现首次登录自动注册：
// 已注册用户校验口令；未注册且在白名单内的用户以给定阵营建档。
// 阵营在建档时确定，之后的登录忽略faction参数。
func LoginOrRegister(username, password, faction string) (*User, error) {
	u, err := GetByUsername(username)
	if err == nil {
		// 已注册，校验口令（恒定时间比较）
		if subtle.ConstantTimeCompare([]byte(u.SimplePassword), []byte(password)) != 1 {
			return nil, ErrWrongPassword
		}
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// 首次登录，自动注册
	if !isWhitelisted(username) {
		return nil, ErrNotWhitelisted
	}
	if faction != FactionTurbid && faction != FactionPure {
		return nil, ErrInvalidFaction
	}

	newUser := User{
		Username:       username,
		SimplePassword: password,
		Faction:        faction,
		Role:           RoleCitizen,
		Inventory:      "[]",
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		// 并发注册同名用户时退回到读取既有记录
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return GetByUsername(username)
		}
		return nil, fmt.Errorf("无法创建新用户: %w", err)
	}

	// 尝试写入Redis快路径缓存；失败只降级不报错。
	// 读锁允许并发登录同时写入，但与缓存重建的写锁互斥，
	// 新增不会落在重建的Del和SAdd之间被清掉。
	if database.IsRedisHealthy() {
		RLockRepository()
		err := database.RDB.SAdd(database.Ctx, KnownUsersKey, username).Err()
		RUnlockRepository()
		if err != nil {
			fmt.Printf("警告: 无法将新用户 %s 写入Redis缓存: %v\n", username, err)
		}
	}

	return &newUser, nil
}

// AwardCoins 在给定事务内为用户发放碎钱，并遵守每日获取上限。
// 返回实际发放的数量（达到上限时可能为0）。
func AwardCoins(tx *gorm.DB, username string, amount int) (int, error) {
	var u User
	if err := tx.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("查询用户失败: %w", err)
	}

	limit := config.Cfg.Game.DailyCoinLimit
	remaining := limit - u.DailyCoinEarned
	if remaining <= 0 {
		return 0, nil
	}
	if amount > remaining {
		amount = remaining
	}

	err := tx.Model(&User{}).Where("username = ?", username).
		Updates(map[string]interface{}{
			"coins":             gorm.Expr("coins + ?", amount),
			"daily_coin_earned": gorm.Expr("daily_coin_earned + ?", amount),
		}).Error
	if err != nil {
		return 0, fmt.Errorf("发放碎钱失败: %w", err)
	}
	return amount, nil
}
