package repository

import "errors"

var (
	// ErrVersionConflict 比较交换更新时版本不匹配
	ErrVersionConflict = errors.New("repository: version conflict")
	// ErrAlreadyVoted 重复投票
	ErrAlreadyVoted = errors.New("repository: already voted")
)
