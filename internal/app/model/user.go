package model

import (
	"time"
)

type User struct {
	ID                uint       `gorm:"primarykey" json:"id"`              // 사용자 ID
	Email             string     `gorm:"uniqueIndex;not null" json:"email"` // 이메일 (저장된 그대로 대소문자 구분)
	PasswordHash      string     `gorm:"not null" json:"-"`                 // 비밀번호 해시 (노출 금지)
	Name              string     `gorm:"not null" json:"name"`              // 이름
	ResetToken        *string    `gorm:"size:255;index" json:"-"`           // 비밀번호 재설정 토큰 (노출 금지)
	ResetTokenExpires *time.Time `json:"-"`                                 // 재설정 토큰 만료 시각
	CreatedAt         time.Time  `json:"created_at"`                        // 생성 시각
	UpdatedAt         time.Time  `json:"updated_at"`                        // 수정 시각
}

func (User) TableName() string {
	return "users"
}

// HasPendingReset reports whether a reset token is stored and still valid at now.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpires != nil && now.Before(*u.ResetTokenExpires)
}
