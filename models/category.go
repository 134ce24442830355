package models

type Category struct {
	Base        `bson:",inline"`
	Name        string `json:"name" binding:"required" bson:"name"`
	Description string `json:"description" bson:"description"`
	ImageURL    string `json:"imageUrl" bson:"image_url"`
	IsActive    bool   `json:"isActive" bson:"is_active"`
	SortOrder   int    `json:"sortOrder" binding:"min=0" bson:"sort_order"`
}

func (Category) TableName() string { return CollCategories }
