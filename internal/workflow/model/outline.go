package model

type OutlineInput struct {
	Voice        Voice
	Title        string
	Subtitle     string
	ChapterCount int
}
