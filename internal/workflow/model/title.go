package model

type TitleInput struct {
	Voice   Voice
	Context string
}

type TitleOutput struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}
