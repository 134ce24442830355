package models

import "gorm.io/datatypes"

// Banner is a bilingual (en/tr) promotional card shown on the mobile home screen.
type Banner struct {
	Base          `bson:",inline"`
	TitleEN       string                      `json:"title_en" binding:"required" bson:"title_en"`
	TitleTR       string                      `json:"title_tr" bson:"title_tr"`
	SubtitleEN    string                      `json:"subtitle_en" bson:"subtitle_en"`
	SubtitleTR    string                      `json:"subtitle_tr" bson:"subtitle_tr"`
	DescriptionEN string                      `json:"description_en" bson:"description_en"`
	DescriptionTR string                      `json:"description_tr" bson:"description_tr"`
	ButtonEN      string                      `json:"button_en" bson:"button_en"`
	ButtonTR      string                      `json:"button_tr" bson:"button_tr"`
	Icon          string                      `json:"icon" bson:"icon"`
	Colors        datatypes.JSONSlice[string] `json:"colors" binding:"omitempty,max=2,dive,hexcolor" bson:"colors"`
	TargetScreen  string                      `json:"targetScreen" bson:"target_screen"`
	IsActive      bool                        `json:"isActive" bson:"is_active"`
	SortOrder     int                         `json:"sortOrder" binding:"min=0" bson:"sort_order"`
}

func (Banner) TableName() string { return CollBanners }

const (
	DefaultBannerIcon   = "ShoppingBag"
	DefaultBannerColor1 = "#01615F"
	DefaultBannerColor2 = "#047857"
)
