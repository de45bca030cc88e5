package dto

import (
	"time"

	"satire-press-api/internal/domain/entity"
)

// CommunityGenerateRequest 社区标题生成请求
type CommunityGenerateRequest struct {
	Industry string `json:"industry" binding:"required,max=64"`
}

// SubmissionDTO 社区标题
type SubmissionDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Industry  string    `json:"industry"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToSubmissionDTO 转换社区标题；不输出生成者标识
func ToSubmissionDTO(s *entity.TitleSubmission) *SubmissionDTO {
	return &SubmissionDTO{
		ID:        s.ID,
		Title:     s.Title,
		Subtitle:  s.Subtitle,
		Industry:  s.Industry,
		Votes:     s.Votes,
		CreatedAt: s.CreatedAt,
	}
}

// ToSubmissionDTOs 批量转换
func ToSubmissionDTOs(items []*entity.TitleSubmission) []*SubmissionDTO {
	out := make([]*SubmissionDTO, 0, len(items))
	for _, s := range items {
		out = append(out, ToSubmissionDTO(s))
	}
	return out
}
