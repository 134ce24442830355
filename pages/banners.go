package pages

import (
	"time"

	"gorm.io/datatypes"

	"food-delivery-admin/models"
	"food-delivery-admin/page"
	"food-delivery-admin/store"
)

func BannerSpec() page.Spec[models.Banner] {
	return page.Spec[models.Banner]{
		Name: "banners",
		ID:   func(b models.Banner) string { return b.ID },
		Search: func(b models.Banner) []string {
			return []string{b.TitleEN, b.TitleTR, b.SubtitleEN, b.SubtitleTR, b.TargetScreen, b.ID}
		},
		Filters: map[string]page.Filter[models.Banner]{
			"active": activeFilter(func(b models.Banner) bool { return b.IsActive }),
		},
		Stats: func(items []models.Banner, _ time.Time) page.Stats {
			s := page.NewStats(len(items))
			s.Counts["active"] = page.Count(items, func(b models.Banner) bool { return b.IsActive })
			return s
		},
		Draft: func() models.Banner {
			return models.Banner{
				Icon:     models.DefaultBannerIcon,
				Colors:   datatypes.JSONSlice[string]{models.DefaultBannerColor1, models.DefaultBannerColor2},
				IsActive: true,
			}
		},
	}
}

type BannerForm struct {
	TitleEN       string   `json:"title_en" binding:"required"`
	TitleTR       string   `json:"title_tr"`
	SubtitleEN    string   `json:"subtitle_en"`
	SubtitleTR    string   `json:"subtitle_tr"`
	DescriptionEN string   `json:"description_en"`
	DescriptionTR string   `json:"description_tr"`
	ButtonEN      string   `json:"button_en"`
	ButtonTR      string   `json:"button_tr"`
	Icon          string   `json:"icon"`
	Colors        []string `json:"colors" binding:"omitempty,max=2,dive,hexcolor"`
	TargetScreen  string   `json:"targetScreen"`
	IsActive      bool     `json:"isActive"`
	SortOrder     int      `json:"sortOrder" binding:"min=0"`
}

// BannerColors pads colors to the two-stop gradient the app renders.
func BannerColors(colors []string) datatypes.JSONSlice[string] {
	out := datatypes.JSONSlice[string]{models.DefaultBannerColor1, models.DefaultBannerColor2}
	copy(out, colors)
	return out
}

func (f *BannerForm) Fields() map[string]any {
	icon := f.Icon
	if icon == "" {
		icon = models.DefaultBannerIcon
	}
	return map[string]any{
		"title_en":       f.TitleEN,
		"title_tr":       f.TitleTR,
		"subtitle_en":    f.SubtitleEN,
		"subtitle_tr":    f.SubtitleTR,
		"description_en": f.DescriptionEN,
		"description_tr": f.DescriptionTR,
		"button_en":      f.ButtonEN,
		"button_tr":      f.ButtonTR,
		"icon":           icon,
		"colors":         BannerColors(f.Colors),
		"target_screen":  f.TargetScreen,
		"is_active":      f.IsActive,
		"sort_order":     f.SortOrder,
	}
}

func NewBanners(coll store.Collection[models.Banner], env Env) *page.Controller[models.Banner] {
	return page.ForCollection(BannerSpec(), coll, options[models.Banner](env)...)
}
