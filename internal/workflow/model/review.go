package model

// PriorChapter 审稿时提供的前文
type PriorChapter struct {
	Number  int
	Title   string
	Excerpt string
}

type ReviewInput struct {
	ChapterNumber int
	ChapterTitle  string
	Content       string
	Previous      []PriorChapter
}
