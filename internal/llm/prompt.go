package llm

import (
	"fmt"
	"strings"
)

// Prompt construction limits. Later stages depend on the section order
// (title > URL > excerpt > tags > OCR) and these cut-offs staying stable.
const (
	maxExcerptChars  = 500
	maxOCRChars      = 3000
	maxExistingTags  = 10
	ocrTruncatedMark = "\n...(OCR text truncated)"
	contextSeparator = "\n\n"
	jsonFence        = "```"
)

// systemPrompt is the fixed persona for the analysis request: a structured
// information extraction expert constrained to Chinese output and
// legitimate content only.
const systemPrompt = "你是一位分析网页并提取主要实体（电影、视频、文章、产品等）结构化信息的专家。专注于实体本身，而不是网站。请用中文回答。注意：只提取合法、通用的内容类型。"

// analysisPromptTemplate is the instruction contract sent to the model.
// The entity taxonomy, per-entity schema field names, and the JSON-only
// output rule are load-bearing: the parser assumes the model was told to
// answer with a single JSON object.
const analysisPromptTemplate = `你正在分析一个网页，以提取关于**主要实体**的结构化信息（电影、视频、文章、产品等）。

## 页面上下文：
%s

## 你的任务：

首先，识别**实体类型**（从以下类别中选择）：
- **video**: 视频/电影
- **article**: 博客文章、新闻报道
- **product**: 电商产品
- **profile**: 人物/演员资料页
- **other**: 其他类型

然后提取实体特定的信息：

### 视频/电影 (video):
` + jsonFence + `json
{
  "entity_type": "video",
  "title": "电影/视频标题",
  "cast": ["主要演员"],
  "director": "导演名字",
  "genre": ["类型"],
  "year": "发行年份",
  "tags": ["相关标签"],
  "categories": ["分类"],
  "description": "简短摘要"
}
` + jsonFence + `

### 文章 (article):
` + jsonFence + `json
{
  "entity_type": "article",
  "title": "文章标题",
  "author": "作者名字",
  "tags": ["主题标签"],
  "categories": ["分类"],
  "summary": "文章摘要",
  "language": "内容语言"
}
` + jsonFence + `

### 产品 (product):
` + jsonFence + `json
{
  "entity_type": "product",
  "title": "产品名称",
  "brand": "品牌/制造商",
  "price": "价格（如果可用）",
  "tags": ["产品特性/标签"],
  "categories": ["产品分类"],
  "description": "产品描述"
}
` + jsonFence + `

### 其他类型 (other):
` + jsonFence + `json
{
  "entity_type": "other",
  "title": "主要标题/标题",
  "tags": ["相关标签"],
  "categories": ["分类"],
  "description": "简短描述"
}
` + jsonFence + `

## 重要规则：

1. **专注于实体本身**，而不是网站
2. 仅当上下文中存在信息时才提取
3. 使用**标题**作为主要依据
4. 标签和描述尽量使用中文，但保留人名的原始写法
5. 如果字段没有数据，返回空数组或 null
6. **只返回有效的 JSON**，不要包含任何额外文本
7. **所有描述性文本必须使用中文**

基于以上上下文，提取实体信息：

JSON:`

// BuildAnalysisPrompt assembles the context-ranked analysis prompt.
// Pure and deterministic: the same inputs always yield the same prompt.
func BuildAnalysisPrompt(ocrText, pageURL, title, excerpt string, existingTags []string) string {
	var parts []string

	// 1. Title (most important signal)
	if title != "" {
		parts = append(parts, fmt.Sprintf("**Title:** %s", title))
	}

	// 2. URL (for domain/pattern clues)
	if pageURL != "" {
		parts = append(parts, fmt.Sprintf("**URL:** %s", pageURL))
	}

	// 3. Content excerpt, hard-truncated
	if excerpt != "" {
		parts = append(parts, fmt.Sprintf("**Excerpt:** %s", truncateRunes(excerpt, maxExcerptChars)))
	}

	// 4. Existing tags (as hints), capped
	if len(existingTags) > 0 {
		tags := existingTags
		if len(tags) > maxExistingTags {
			tags = tags[:maxExistingTags]
		}
		parts = append(parts, fmt.Sprintf("**Existing Tags:** %s", strings.Join(tags, ", ")))
	}

	// 5. OCR text, truncated with an explicit marker so the model knows
	// the context is incomplete
	ocrSection := truncateRunes(ocrText, maxOCRChars)
	if len([]rune(ocrText)) > maxOCRChars {
		ocrSection += ocrTruncatedMark
	}
	parts = append(parts, fmt.Sprintf("**OCR Text (from screenshot):**\n%s", ocrSection))

	fullContext := strings.Join(parts, contextSeparator)
	return fmt.Sprintf(analysisPromptTemplate, fullContext)
}

// truncateRunes cuts s to at most n runes. Counting runes, not bytes,
// keeps multi-byte CJK text from being split mid-character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
