package sqlite

import "time"

type UserModel struct {
	ID        string  `gorm:"primaryKey"`
	Name      string  `gorm:"uniqueIndex;not null"`
	PIN       *string `gorm:"column:pin"`
	CreatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

type BookModel struct {
	ID              string `gorm:"primaryKey"`
	Title           string `gorm:"not null"`
	Author          string
	Publisher       string
	CoverURL        string `gorm:"column:cover_url"`
	Rating          int    `gorm:"not null;default:5"`
	ReviewContent   string
	ReviewWordCount int
	RecommendTo     string
	ReadDate        string
	Link            string
	UserID          string   `gorm:"not null;index"`
	Keywords        []string `gorm:"serializer:json"`
	CreatedAt       time.Time
}

func (BookModel) TableName() string { return "books" }
