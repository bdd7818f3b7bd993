package prompts

import "strings"

// Language selects the instruction block that tells the model which language
// to answer in. Only Chinese and English are supported.
type Language string

const (
	LanguageChinese Language = "zh"
	LanguageEnglish Language = "en"
)

const (
	chineseInstruction = "请使用简体中文输出所有分析、解答和知识点内容。"
	englishInstruction = "Please write all analysis, solutions and knowledge points in English."
)

// ParseLanguage maps user input onto a Language. Anything that is not a
// recognizable Chinese locale is English. There is no Traditional Chinese
// instruction: zh-TW and zh-Hant map to LanguageChinese and get the
// Simplified Chinese instruction.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "zh-cn", "zh-hans", "zh-tw", "zh-hant", "cn", "chinese", "中文":
		return LanguageChinese
	default:
		return LanguageEnglish
	}
}

func (l Language) chinese() bool {
	return ParseLanguage(string(l)) == LanguageChinese
}

// instruction returns the language instruction sentence for l.
func (l Language) instruction() string {
	if l.chinese() {
		return chineseInstruction
	}
	return englishInstruction
}
