package apostate

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/chapter"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/ledger"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/database"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/user"
)

// ErrAlreadyScreened 表示用户的终身一次适性检测已经完成。
var ErrAlreadyScreened = errors.New("适性检测已完成，不可重复")

// ErrNotApostate 表示用户当前不持有背道者身份。
var ErrNotApostate = errors.New("用户不是背道者")

// ErrAbilityUsed 表示本章节的能力额度已经消耗。
// 它意味着动作确实成功过，客户端不应提示重试。
var ErrAbilityUsed = errors.New("本章节能力已使用")

// ErrInvalidChapter 表示章节标签无法识别。
var ErrInvalidChapter = errors.New("无法识别的章节")

// variantRNG 用于首次指派能力变体和生成变体效果中的随机量。
var variantRNG = rand.New(rand.NewSource(time.Now().UnixNano()))

// CompleteScreening 完成一次适性检测：
// 服务端计分，台账保证终身一次，分数达标则标记高适性候选者。
// 无论结果如何，用户都进入抽选池（is_in_lottery_pool），防止重复检测。
func CompleteScreening(username string, answers []Answer) (*ScreeningResult, error) {
	if _, err := user.GetByUsername(username); err != nil {
		return nil, err
	}

	score, err := scoreAnswers(answers)
	if err != nil {
		return nil, err
	}
	high := isHighAffinity(score)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// 台账记账是重复检测的唯一闸门
		if err := ledger.Consume(tx, username, chapter.None, ledger.KindScreening); err != nil {
			if errors.Is(err, ledger.ErrAlreadyConsumed) {
				return ErrAlreadyScreened
			}
			return err
		}

		// 只持久化分数的裁决，不保留原始作答
		return tx.Model(&user.User{}).Where("username = ?", username).
			Updates(map[string]interface{}{
				"is_in_lottery_pool":         true,
				"is_high_affinity_candidate": high,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return &ScreeningResult{Score: score, HighAffinity: high}, nil
}

// requireApostate 读取用户并验证其持有背道者身份。
func requireApostate(username string) (*user.User, error) {
	u, err := user.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if u.Role != user.RoleApostate {
		return nil, ErrNotApostate
	}
	return u, nil
}

// GetOrAssignAbility 返回用户在指定章节的能力状态。
// 首次调用时以等概率指派一个变体并持久化；指派采用插入冲突忽略，
// 并发的首次调用也只会落下一条记录。
func GetOrAssignAbility(username, chapterTag string) (*AbilityStatus, error) {
	if !chapter.IsValid(chapterTag) {
		return nil, ErrInvalidChapter
	}
	if _, err := requireApostate(username); err != nil {
		return nil, err
	}

	variants := []string{VariantIntelReveal, VariantStatReveal, VariantResourceSiphon}
	candidate := AbilityAssignment{
		Username: username,
		Chapter:  chapterTag,
		Variant:  variants[variantRNG.Intn(len(variants))],
	}
	if err := database.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&candidate).Error; err != nil {
		return nil, fmt.Errorf("指派能力变体失败: %w", err)
	}

	// 回读生效的指派（自己或并发请求落下的那条）
	var assigned AbilityAssignment
	if err := database.DB.
		Where("username = ? AND chapter = ?", username, chapterTag).
		First(&assigned).Error; err != nil {
		return nil, fmt.Errorf("读取能力指派失败: %w", err)
	}

	used, err := ledger.HasConsumed(username, chapterTag, ledger.KindApostateAbility)
	if err != nil {
		return nil, err
	}

	return &AbilityStatus{Variant: assigned.Variant, Used: used}, nil
}

// ExecuteAbility 执行用户在指定章节被指派的能力，每章至多一次。
// 台账记账与效果结算在同一个事务内：效果失败则回滚记账，
// 能力不会被标记为已使用。
func ExecuteAbility(username, chapterTag string) (*AbilityEffect, error) {
	if !chapter.IsValid(chapterTag) {
		return nil, ErrInvalidChapter
	}

	status, err := GetOrAssignAbility(username, chapterTag)
	if err != nil {
		return nil, err
	}

	var effect *AbilityEffect
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := ledger.Consume(tx, username, chapterTag, ledger.KindApostateAbility); err != nil {
			if errors.Is(err, ledger.ErrAlreadyConsumed) {
				return ErrAbilityUsed
			}
			return err
		}

		effect, err = resolveEffect(tx, username, status.Variant)
		return err
	})
	if err != nil {
		return nil, err
	}
	return effect, nil
}

// enemyStrongholds 是变体A可以标记的敌方据点池。
var enemyStrongholds = []string{
	"荒原座標·甲", "荒原座標·乙", "聖所暗渠", "眾議會糧倉", "鐘樓地窖",
}

// resolveEffect 在事务内结算变体效果。
func resolveEffect(tx *gorm.DB, username, variant string) (*AbilityEffect, error) {
	switch variant {
	case VariantIntelReveal:
		return &AbilityEffect{
			Variant:        variant,
			Message:        "『我在教會的聖所牆縫裡，看見了被他們隱藏的荒原座標。』",
			MarkedLocation: enemyStrongholds[variantRNG.Intn(len(enemyStrongholds))],
		}, nil

	case VariantStatReveal:
		tilt := variantRNG.Intn(50)
		return &AbilityEffect{
			Variant:   variant,
			Message:   "『眾議會的帳本上，記錄著他們對天平犯下的下一樁罪行。』",
			EnemyTilt: &tilt,
		}, nil

	case VariantResourceSiphon:
		awarded, err := user.AwardCoins(tx, username, 1)
		if err != nil {
			return nil, fmt.Errorf("物资劫掠结算失败: %w", err)
		}
		return &AbilityEffect{
			Variant:      variant,
			Message:      "『並非每一粒沙都會回歸原處。』",
			CoinsAwarded: &awarded,
		}, nil
	}
	return nil, fmt.Errorf("未知的能力变体: %s", variant)
}
