package apostate

import (
	"errors"
	"math/rand"
	"time"
)

// 适性检测的参数：从题库抽取3题，每题的「异见」选项计2点适性，
// 总分达到满分的三分之二（4/6）即标记为高适性候选者。
const (
	questionsPerScreening = 3
	affinityPerQuestion   = 2
	highAffinityThreshold = 4
)

// ErrUnknownQuestion 表示提交的答案引用了不存在的题目或选项。
var ErrUnknownQuestion = errors.New("未知的题目或选项")

// ErrWrongAnswerCount 表示提交的答案数量不等于抽题数量。
var ErrWrongAnswerCount = errors.New("答案数量不正确")

// Option 是检测题的一个选项。Affinity是该选项的适性权重，
// 只在服务端参与计分，绝不下发给客户端。
type Option struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Affinity int    `json:"-"`
}

// Question 是一道适性检测题。
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Answer 是客户端提交的一条作答记录。
type Answer struct {
	QuestionID string `json:"questionId" binding:"required"`
	OptionID   string `json:"optionId" binding:"required"`
}

// questionPool 是固定题库。a选项代表顺从与求生（0点），
// b选项代表叛逆与求真（2点），与旧版检测问卷的计分方案一致。
var questionPool = []Question{
	{
		ID:   "q1",
		Text: "教會的鐘聲響起時，你在牆縫裡看見一行不該存在的座標。你會？",
		Options: []Option{
			{ID: "a", Text: "移開視線。世界依然穩固，鐘聲依然準時。", Affinity: 0},
			{ID: "b", Text: "記下它。裂痕既然存在，就該有人凝視。", Affinity: affinityPerQuestion},
		},
	},
	{
		ID:   "q2",
		Text: "天平傾斜的那一夜，眾議會宣稱一切如常。你會？",
		Options: []Option{
			{ID: "a", Text: "相信他們。秩序比真相更能讓人活下去。", Affinity: 0},
			{ID: "b", Text: "去稱量。帳本上的數字不會說謊。", Affinity: affinityPerQuestion},
		},
	},
	{
		ID:   "q3",
		Text: "同伴在你耳邊低語：「幾何體在視網膜上凝結了。」你會？",
		Options: []Option{
			{ID: "a", Text: "勸他就醫。幻覺是荒原的瘴氣所致。", Affinity: 0},
			{ID: "b", Text: "問他看見了幾個面。", Affinity: affinityPerQuestion},
		},
	},
	{
		ID:   "q4",
		Text: "配給的沙漏裡少了一粒沙。你會？",
		Options: []Option{
			{ID: "a", Text: "不去數。並非每一粒沙都值得追究。", Affinity: 0},
			{ID: "b", Text: "追問它去了哪裡。截流總有源頭。", Affinity: affinityPerQuestion},
		},
	},
	{
		ID:   "q5",
		Text: "聖所的門夜裡虛掩著，門後傳來翻動紙頁的聲音。你會？",
		Options: []Option{
			{ID: "a", Text: "把門關好。有些房間本就不該被打開。", Affinity: 0},
			{ID: "b", Text: "推門進去。被藏起來的書頁寫著你的名字。", Affinity: affinityPerQuestion},
		},
	},
	{
		ID:   "q6",
		Text: "清算人的透視鏡掃過人群，你感到視網膜一陣刺痛。你會？",
		Options: []Option{
			{ID: "a", Text: "垂下眼睛，混入人群的呼吸。", Affinity: 0},
			{ID: "b", Text: "與鏡片對視。震顫不該單向傳遞。", Affinity: affinityPerQuestion},
		},
	},
}

// quizRNG 是抽题用的随机数源。
var quizRNG = rand.New(rand.NewSource(time.Now().UnixNano()))

// DrawQuestions 从题库随机抽取一组检测题。
func DrawQuestions() []Question {
	shuffled := make([]Question, len(questionPool))
	copy(shuffled, questionPool)
	quizRNG.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:questionsPerScreening]
}

// scoreAnswers 在服务端根据题库权重计算总适性分。
// 同一题重复作答视为非法提交。
func scoreAnswers(answers []Answer) (int, error) {
	if len(answers) != questionsPerScreening {
		return 0, ErrWrongAnswerCount
	}

	seen := make(map[string]bool, len(answers))
	total := 0
	for _, ans := range answers {
		if seen[ans.QuestionID] {
			return 0, ErrUnknownQuestion
		}
		seen[ans.QuestionID] = true

		matched := false
		for _, q := range questionPool {
			if q.ID != ans.QuestionID {
				continue
			}
			for _, opt := range q.Options {
				if opt.ID == ans.OptionID {
					total += opt.Affinity
					matched = true
					break
				}
			}
			break
		}
		if !matched {
			return 0, ErrUnknownQuestion
		}
	}
	return total, nil
}

// isHighAffinity 判断总分是否达到高适性阈值。
func isHighAffinity(score int) bool {
	return score >= highAffinityThreshold
}
