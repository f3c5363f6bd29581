package liquidator

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/chapter"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/ledger"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/user"
)

// ErrTargetNotFound 表示扫描目标不存在。
var ErrTargetNotFound = errors.New("扫描目标不存在")

// ErrCrossFaction 表示跨阵营扫描被拒绝。
// 清算人只能扫描本阵营成员；这是安全约束，拒绝时绝不泄露裁决。
var ErrCrossFaction = errors.New("不能扫描其他阵营的成员")

// ErrNotLiquidator 表示发起者不持有清算人身份。
var ErrNotLiquidator = errors.New("发起者不是清算人")

// ErrScanUsed 表示发起者本章节的扫描额度已消耗。
var ErrScanUsed = errors.New("本章节扫描已使用")

// ErrInvalidChapter 表示章节标签无法识别。
var ErrInvalidChapter = errors.New("无法识别的章节")

// Scan 执行一次清算人扫描：
// 校验发起者身份与同阵营约束，裁决目标是否为背道者，
// 并在同一个事务内消耗本章额度、写入审计记录。
//
// 约束校验失败（目标不存在、跨阵营）不消耗额度；
// 只有真正产出裁决的扫描才会记账。
func Scan(actor, target, requesterFaction, chapterTag string) (string, error) {
	if !chapter.IsValid(chapterTag) {
		return "", ErrInvalidChapter
	}

	// 1. 发起者必须是清算人，且申报的阵营必须与存档一致
	actingUser, err := user.GetByUsername(actor)
	if err != nil {
		return "", err
	}
	if actingUser.Role != user.RoleLiquidator {
		return "", ErrNotLiquidator
	}
	if actingUser.Faction != requesterFaction {
		return "", ErrCrossFaction
	}

	// 2. 目标必须存在且与发起者同阵营
	targetUser, err := user.GetByUsername(target)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", ErrTargetNotFound
		}
		return "", err
	}
	if targetUser.Faction != requesterFaction {
		return "", ErrCrossFaction
	}

	// 3. 裁决：任何章节的背道者都呈阳性
	verdict := VerdictNegative
	if targetUser.Role == user.RoleApostate {
		verdict = VerdictPositive
	}

	// 4. 消耗额度并留档，全有或全无
	scanID := uuid.NewString()
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := ledger.Consume(tx, actor, chapterTag, ledger.KindLiquidatorScan); err != nil {
			if errors.Is(err, ledger.ErrAlreadyConsumed) {
				return ErrScanUsed
			}
			return err
		}
		return tx.Create(&ScanRecord{
			ScanID:  scanID,
			Actor:   actor,
			Target:  target,
			Chapter: chapterTag,
			Verdict: verdict,
		}).Error
	})
	if err != nil {
		return "", err
	}

	fmt.Printf("扫描留档 [%s]: %s -> %s 章节=%s 裁决=%s\n",
		scanID, actor, target, chapterTag, verdict)
	return verdict, nil
}

// HasScanned 查询发起者在指定章节是否已经消耗扫描额度。
func HasScanned(actor, chapterTag string) (bool, error) {
	return ledger.HasConsumed(actor, chapterTag, ledger.KindLiquidatorScan)
}
