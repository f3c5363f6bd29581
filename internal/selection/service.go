package selection

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/chapter"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/user"
)

// ErrInvalidChapter 表示章节标签无法识别。
// 未识别的章节必须显式失败，而不是静默抽出零人并报告成功。
var ErrInvalidChapter = errors.New("无法识别的章节")

// legacyRoles 是第一章重置时需要清洗的身份集合。
// 其中的数字占位值来自早期数据污染，一并修正为公民。
var legacyRoles = []string{
	"apostate", "apostate_ch1", "apostate_ch3", "liquidator", "4", "5",
}

// newRNG 为一次抽选创建独立的随机数源。
func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// lotteryRoleFor 把章节标签映射为背道者抽选授予的身份。
// 只有第一章和第三章存在背道者觉醒。
func lotteryRoleFor(chapterTag string) (string, error) {
	switch chapterTag {
	case chapter.Chapter1, chapter.Chapter3:
		return user.RoleApostate, nil
	}
	return "", ErrInvalidChapter
}

// RunLottery 执行一次背道者抽选：
// 候选 = 高适性且仍为公民的用户，按阵营对称抽取quota人，授予背道者身份。
func RunLottery(chapterTag string, quotaPerFaction int) (*Result, error) {
	newRole, err := lotteryRoleFor(chapterTag)
	if err != nil {
		return nil, err
	}
	return runSelection(chapterTag, quotaPerFaction, newRole,
		"is_high_affinity_candidate = ? AND role = ?", true, user.RoleCitizen)
}

// RunLiquidatorDraft 执行一次清算人选拔：
// 候选 = 所有公民（不要求高适性），授予清算人身份。
// 曾任背道者的用户不再是公民，因此天然被排除在外。
func RunLiquidatorDraft(chapterTag string, quotaPerFaction int) (*Result, error) {
	if !chapter.IsValid(chapterTag) {
		return nil, ErrInvalidChapter
	}
	return runSelection(chapterTag, quotaPerFaction, user.RoleLiquidator,
		"role = ?", user.RoleCitizen)
}

// grantRole 以比较交换的方式授予身份：更新条件重查该行仍为公民，
// 返回值表示授予是否真的生效。已被其他抽选改掉身份的行不生效。
func grantRole(tx *gorm.DB, username, newRole, chapterTag string) (bool, error) {
	res := tx.Model(&user.User{}).
		Where("username = ? AND role = ?", username, user.RoleCitizen).
		Updates(map[string]interface{}{
			"role":             newRole,
			"chapter_assigned": chapterTag,
		})
	if res.Error != nil {
		return false, fmt.Errorf("授予身份失败: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// runSelection 是抽选引擎的核心：在单个事务内完成候选读取、
// 随机抽取和身份授予，保证全有或全无。
//
// 入选名单只由每一行grantRole的更新结果决定，不做事后回查：
// 预取列表里被并发抽选抢先改掉身份的行，授予不生效，静默落选。
func runSelection(chapterTag string, quotaPerFaction int, newRole string, candidateQuery string, candidateArgs ...interface{}) (*Result, error) {
	rng := newRNG()
	result := &Result{RunID: uuid.NewString(), Selected: []SelectedUser{}}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 1. 读取候选集
		var candidates []user.User
		if err := tx.Where(candidateQuery, candidateArgs...).Find(&candidates).Error; err != nil {
			return fmt.Errorf("读取候选集失败: %w", err)
		}

		// 2. 按阵营对称抽取。某一阵营人数不足配额时全部入选。
		picked := pickPerFaction(candidates, quotaPerFaction, rng)

		// 3. 逐行条件化授予身份
		turbidCount := 0
		for _, cand := range picked {
			granted, err := grantRole(tx, cand.Username, newRole, chapterTag)
			if err != nil {
				return err
			}
			if !granted {
				continue
			}
			if cand.Faction == user.FactionTurbid {
				turbidCount++
			}
			result.Selected = append(result.Selected, SelectedUser{
				Username:  cand.Username,
				Faction:   cand.Faction,
				Deviation: rollDeviation(rng),
			})
		}

		// 4. 留档本次抽选
		return tx.Create(&Run{
			RunID:           result.RunID,
			Chapter:         chapterTag,
			RoleGranted:     newRole,
			QuotaPerFaction: quotaPerFaction,
			TurbidPicked:    turbidCount,
			PurePicked:      len(result.Selected) - turbidCount,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	fmt.Printf("抽选完成 [%s]: 章节=%s 身份=%s 入选=%d人\n",
		result.RunID, chapterTag, newRole, len(result.Selected))
	return result, nil
}

// ResetChapterOne 把所有旧版/污染身份批量重置为公民，并清空章节归属。
// 幂等：连续执行两次与执行一次的终态相同。
// 破坏性：在抽选之后执行会撤销该章节已授予的身份，这正是
// “修正错误分配”的逃生通道，因此调用方必须先通过确认令牌。
func ResetChapterOne() (int64, error) {
	var affected int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&user.User{}).
			Where("role IN ?", legacyRoles).
			Updates(map[string]interface{}{
				"role":             user.RoleCitizen,
				"chapter_assigned": "",
			})
		if result.Error != nil {
			return fmt.Errorf("重置身份失败: %w", result.Error)
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	fmt.Printf("第一章身份重置完成，共修正 %d 名用户。\n", affected)
	return affected, nil
}
