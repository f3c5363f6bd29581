package apostate

import "time"

// 能力变体。背道者在每个章节被稳定地指派其中一种，
// 指派结果持久化，跨会话不变。
const (
	VariantIntelReveal    = "A" // 霧後的真相：标记敌方据点坐标
	VariantStatReveal     = "B" // 權力的裂縫：读取敌方天平偏移值
	VariantResourceSiphon = "C" // 物資的截流：从敌方总池窃取碎钱
)

// AbilityAssignment 是在SQLite中持久化的能力指派记录。
// (用户, 章节) 唯一，保证同一章内变体稳定。
type AbilityAssignment struct {
	ID       uint   `gorm:"primarykey"`
	Username string `gorm:"type:varchar(64);uniqueIndex:idx_ability_once,priority:1"`
	Chapter  string `gorm:"type:varchar(16);uniqueIndex:idx_ability_once,priority:2"`
	Variant  string `gorm:"type:varchar(4)"`

	CreatedAt time.Time
}

// TableName 指定能力指派的表名
func (AbilityAssignment) TableName() string {
	return "ability_assignments"
}

// ScreeningResult 是一次适性检测的结果。
type ScreeningResult struct {
	Score        int  `json:"score"`
	HighAffinity bool `json:"highAffinity"`
}

// AbilityStatus 描述用户在某章节的能力状态。
type AbilityStatus struct {
	Variant string `json:"variant"`
	Used    bool   `json:"used"`
}

// AbilityEffect 是一次能力执行的产出，按变体填充不同字段。
type AbilityEffect struct {
	Variant string `json:"variant"`
	// Message 是展示给玩家的叙事文案。
	Message string `json:"message"`
	// MarkedLocation 仅变体A填充：被标记的敌方据点。
	MarkedLocation string `json:"markedLocation,omitempty"`
	// EnemyTilt 仅变体B填充：敌方当前天平偏移值。
	EnemyTilt *int `json:"enemyTilt,omitempty"`
	// CoinsAwarded 仅变体C填充：实际入账的碎钱数。
	CoinsAwarded *int `json:"coinsAwarded,omitempty"`
}
