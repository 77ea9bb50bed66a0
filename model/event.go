package model

type Event struct {
	DTO
	Name      string `gorm:"size:200;not null" json:"name"`
	Code      string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Slug      string `gorm:"size:220;uniqueIndex" json:"slug"`
	Active    bool   `gorm:"default:true" json:"active"`
	IsDeleted bool   `gorm:"default:false" json:"isDeleted"`

	Queues []Queue `gorm:"foreignKey:EventId" json:"queues,omitempty"`
}

type CreateEventInput struct {
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Active *bool  `json:"active" validate:"omitempty"`
}

type UpdateEventInput struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Active *bool   `json:"active" validate:"omitempty"`
}
