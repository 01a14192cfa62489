package model

import (
	"time"
)

const (
	DefaultBookYear    = 1111
	DefaultBookRatings = 4.6
)

type Book struct {
	ID               uint      `gorm:"primarykey" json:"id"`                  // 도서 ID
	Title            string    `gorm:"not null" json:"title"`                 // 제목
	Author           string    `gorm:"not null" json:"author"`                // 저자
	Description      string    `gorm:"type:text;not null" json:"description"` // 설명
	Year             int       `gorm:"not null" json:"year"`                 // 출판 연도
	Ratings          float64   `gorm:"not null" json:"ratings"`              // 평점
	ImagePlaceholder string    `gorm:"not null" json:"image_placeholder"`     // 표지 이미지 URL
	CreatedAt        time.Time `json:"created_at"`                            // 생성 시각
	UpdatedAt        time.Time `json:"updated_at"`                            // 수정 시각
}

func (Book) TableName() string {
	return "books"
}
