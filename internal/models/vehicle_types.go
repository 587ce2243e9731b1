package models

import "time"

// --- Vehicle hierarchy: make -> model -> year -> body type -> engine ---

type CarMake struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	NameKey   string    `json:"-" gorm:"size:100;not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CarModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	NameKey   string    `json:"-" gorm:"size:100;not null;index"`
	MakeID    uint      `json:"makeId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CarYear struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Year      int       `json:"year" gorm:"not null"`
	ModelID   uint      `json:"modelId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CarBodyType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	NameKey   string    `json:"-" gorm:"size:100;not null;index"`
	YearID    uint      `json:"yearId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CarEngine struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	NameKey    string    `json:"-" gorm:"size:100;not null;index"`
	BodyTypeID uint      `json:"bodyTypeId" gorm:"not null;index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MinCarYear is the oldest model year the catalog accepts.
const MinCarYear = 1970

// --- API Input Structs ---

type CarMakeInput struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

type CarModelInput struct {
	Name   string `json:"name" binding:"required,notblank,max=100"`
	MakeID uint   `json:"makeId" binding:"required"`
}

type CarYearInput struct {
	Year    int  `json:"year" binding:"required"`
	ModelID uint `json:"modelId" binding:"required"`
}

type CarBodyTypeInput struct {
	Name   string `json:"name" binding:"required,notblank,max=100"`
	YearID uint   `json:"yearId" binding:"required"`
}

type CarEngineInput struct {
	Name       string `json:"name" binding:"required,notblank,max=100"`
	BodyTypeID uint   `json:"bodyTypeId" binding:"required"`
}

// DeleteSummary counts the rows removed by a cascading delete.
type DeleteSummary struct {
	Makes           int64 `json:"makes"`
	Models          int64 `json:"models"`
	Years           int64 `json:"years"`
	BodyTypes       int64 `json:"bodyTypes"`
	Engines         int64 `json:"engines"`
	Compatibilities int64 `json:"compatibilities"`
}
