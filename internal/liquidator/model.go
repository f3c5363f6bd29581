package liquidator

import "time"

// 扫描裁决的取值。
const (
	VerdictPositive = "positive" // 目标是背道者
	VerdictNegative = "negative" // 目标是公民或清算人
)

// ScanRecord 是在SQLite中持久化的扫描审计记录。
// 每次成功的扫描都会留档：谁在哪一章扫描了谁、裁决为何。
// 台账负责执行每章一次的限制，这张表负责事后追溯。
type ScanRecord struct {
	ID uint `gorm:"primarykey"`

	// ScanID 是本次扫描的UUID，便于与日志关联。
	ScanID string `gorm:"type:varchar(36);uniqueIndex"`

	Actor   string `gorm:"type:varchar(64);index"`
	Target  string `gorm:"type:varchar(64);index"`
	Chapter string `gorm:"type:varchar(16)"`
	Verdict string `gorm:"type:varchar(16)"`

	CreatedAt time.Time
}

// TableName 指定扫描审计的表名
func (ScanRecord) TableName() string {
	return "scan_records"
}
