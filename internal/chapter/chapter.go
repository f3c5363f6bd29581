package chapter

// 章节标签是前端与数据库共用的章节标识，取值固定为三章。
// 未识别的标签一律视为非法输入，不允许静默落空。
const (
	Chapter1 = "Chapter 1"
	Chapter2 = "Chapter 2"
	Chapter3 = "Chapter 3"
)

// None 用于与具体章节无关的台账记录（如终身一次的适性检测）。
const None = "-"

// IsValid 判断一个章节标签是否为已知章节。
func IsValid(tag string) bool {
	switch tag {
	case Chapter1, Chapter2, Chapter3:
		return true
	}
	return false
}
