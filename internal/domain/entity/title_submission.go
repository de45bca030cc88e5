package entity

import (
	"time"

	"github.com/google/uuid"
)

// TitleSubmission 社区生成的标题
type TitleSubmission struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null"`
	Subtitle   string    `json:"subtitle" gorm:"type:varchar(512)"`
	Industry   string    `json:"industry" gorm:"type:varchar(64);index"`
	Context    string    `json:"context,omitempty" gorm:"type:text"`
	Votes      int       `json:"votes" gorm:"not null;default:0;index"`
	CreatorKey string    `json:"-" gorm:"type:varchar(64);index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (TitleSubmission) TableName() string {
	return "community_titles"
}

// NewTitleSubmission 创建社区标题
func NewTitleSubmission(title, subtitle, industry, context, creatorKey string) *TitleSubmission {
	return &TitleSubmission{
		ID:         uuid.NewString(),
		Title:      title,
		Subtitle:   subtitle,
		Industry:   industry,
		Context:    context,
		CreatorKey: creatorKey,
		CreatedAt:  time.Now(),
	}
}

// TitleVote 单个客户端对某标题的投票
type TitleVote struct {
	SubmissionID string    `json:"submission_id" gorm:"type:uuid;primaryKey"`
	VoterKey     string    `json:"-" gorm:"type:varchar(64);primaryKey"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (TitleVote) TableName() string {
	return "community_title_votes"
}
