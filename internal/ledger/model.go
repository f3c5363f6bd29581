package ledger

import "time"

// 一次性动作的种类。台账以 (用户, 章节, 种类) 为唯一键，
// 同一组合只允许成功记账一次。
const (
	KindScreening       = "screening"        // 适性检测，终身一次
	KindApostateAbility = "apostate_ability" // 背道者能力，每章一次
	KindLiquidatorScan  = "liquidator_scan"  // 清算人扫描，每章一次
)

// Action 是在SQLite中持久化的一次性动作台账。
// 唯一索引使“插入即消耗”天然免疫并发竞争：两个并发请求
// 最多只有一个能插入成功，另一个拿到重复键冲突。
type Action struct {
	ID       uint   `gorm:"primarykey"`
	Username string `gorm:"type:varchar(64);uniqueIndex:idx_action_once,priority:1"`
	Chapter  string `gorm:"type:varchar(16);uniqueIndex:idx_action_once,priority:2"`
	Kind     string `gorm:"type:varchar(32);uniqueIndex:idx_action_once,priority:3"`

	CreatedAt time.Time
}

// TableName 指定台账的表名
func (Action) TableName() string {
	return "action_ledger"
}
