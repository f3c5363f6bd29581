package selection

import "time"

// Run 是在SQLite中持久化的一次抽选引擎调用记录。
// 留档以便在发生争议（如重复点击、配额异常）时追溯每次抽选。
type Run struct {
	ID uint `gorm:"primarykey"`

	// RunID 是本次抽选的UUID，同时回写在日志里便于关联。
	RunID string `gorm:"type:varchar(36);uniqueIndex"`

	// Chapter 是触发本次抽选的章节标签。
	Chapter string `gorm:"type:varchar(16)"`

	// RoleGranted 是本次抽选授予的身份（apostate或liquidator）。
	RoleGranted string `gorm:"type:varchar(16)"`

	// QuotaPerFaction 是每个阵营的目标配额。
	QuotaPerFaction int

	// TurbidPicked 和 PurePicked 是实际入选人数，可能小于配额。
	TurbidPicked int
	PurePicked   int

	CreatedAt time.Time
}

// TableName 指定抽选记录的表名
func (Run) TableName() string {
	return "selection_runs"
}

// SelectedUser 是抽选结果中的单个入选者，按API响应的形状定义。
// Deviation 是装饰性的仪式偏移值，不持久化。
type SelectedUser struct {
	Username  string `json:"username"`
	Faction   string `json:"faction"`
	Deviation string `json:"deviation"`
}

// Result 是一次抽选引擎调用的完整输出。
type Result struct {
	RunID    string
	Selected []SelectedUser
}
