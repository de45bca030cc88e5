package model

type ContentInput struct {
	Voice         Voice
	BookTitle     string
	BookSubtitle  string
	ChapterNumber int
	TotalChapters int
	ChapterTitle  string

	// PreviousSummary 最近几章的截断摘要
	PreviousSummary string
	// ForbiddenPatterns 已用过的开头片段
	ForbiddenPatterns []string

	IsRevision       bool
	RevisionGuidance string
}
