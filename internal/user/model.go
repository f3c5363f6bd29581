package user

import (
	"time"

	"gorm.io/gorm"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/chapter"
)

// 阵营常量。阵营在首次注册时确定，此后不可变，
// 驱动所有可见性过滤与抽选分组。
const (
	FactionTurbid = "Turbid"
	FactionPure   = "Pure"
)

// 身份常量。采用单一role字段加ChapterAssigned字段的规范方案，
// 章节变体（如一章背道者）由两者派生。
const (
	RoleCitizen    = "citizen"
	RoleApostate   = "apostate"
	RoleLiquidator = "liquidator"
)

// User 定义了参与者在SQLite数据库中的持久化模型。
// 每位参与者一行，以OC名为主键，注册后永不删除。
type User struct {
	// Username 是参与者的OC名，主键，不可变。
	Username string `gorm:"primarykey;type:varchar(64)" json:"username"`

	// SimplePassword 是登录用的简易口令。
	SimplePassword string `json:"-"`

	// Faction 是参与者的阵营，Turbid或Pure。
	Faction string `gorm:"type:varchar(16);index" json:"faction"`

	// Role 是当前身份：citizen、apostate或liquidator。
	// 只允许由抽选引擎或管理端重置修改。
	Role string `gorm:"type:varchar(16);index;default:citizen" json:"role"`

	// ChapterAssigned 记录授予当前特殊身份的章节标签，公民为空。
	ChapterAssigned string `gorm:"type:varchar(16)" json:"chapter_assigned"`

	// IsHighAffinityCandidate 由适性检测一次性写入，
	// 决定背道者抽选的入围资格。
	IsHighAffinityCandidate bool `json:"is_high_affinity_candidate"`

	// IsInLotteryPool 在完成适性检测后置位（无论结果），防止重复检测。
	IsInLotteryPool bool `json:"is_in_lottery_pool"`

	// 经济状态。由其他子系统读写，身份系统中仅物资劫掠会发放碎钱。
	Coins           int    `json:"coins"`
	Inventory       string `gorm:"type:text;default:'[]'" json:"inventory"`
	DailyCoinEarned int    `json:"daily_coin_earned"`

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IdentityRole 返回管理界面沿用的旧版身份标签：
// citizen / apostate_ch1 / apostate_ch3 / liquidator。
func (u *User) IdentityRole() string {
	if u.Role == RoleApostate {
		switch u.ChapterAssigned {
		case chapter.Chapter1:
			return "apostate_ch1"
		case chapter.Chapter3:
			return "apostate_ch3"
		}
		return RoleApostate
	}
	return u.Role
}

// IsCitizen 判断用户当前是否为普通公民。
func (u *User) IsCitizen() bool {
	return u.Role == RoleCitizen
}
