package specification

import (
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ActiveUsers struct{}

func (s ActiveUsers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "active")
}

// TeachesSkill narrows users to those with a matching teach-kind skill row.
// Empty fields are not filtered on.
type TeachesSkill struct {
	Name     string
	Category string
}

func (s TeachesSkill) Apply(db *gorm.DB) *gorm.DB {
	sub := db.Session(&gorm.Session{NewDB: true}).
		Table("user_skills").
		Select("user_id").
		Where("kind = ?", "teach")
	if s.Name != "" {
		sub = sub.Where("name ILIKE ?", "%"+s.Name+"%")
	}
	if s.Category != "" {
		sub = sub.Where("category = ?", s.Category)
	}
	return db.Where("id IN (?)", sub)
}

// Token Specs

type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

type ByTokenHash struct {
	Hash string
}

func (s ByTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token_hash = ?", s.Hash)
}
