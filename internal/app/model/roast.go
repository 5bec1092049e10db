package model

import "github.com/ikkim/animeroast-backend/pkg/anilist"

// Stat bounds
const (
	StatMin     = 0
	StatMax     = 100
	StatDefault = 50
)

// RoastStats are the six joke scores attached to every roast, each 0..100.
type RoastStats struct {
	HorninessLevel     int `json:"horniness_level"`
	PlotArmorThickness int `json:"plot_armor_thickness"`
	FillerHell         int `json:"filler_hell"`
	PowerCreep         int `json:"power_creep"`
	CringeFactor       int `json:"cringe_factor"`
	FanToxicity        int `json:"fan_toxicity"`
}

// DefaultRoastStats has every stat at StatDefault.
func DefaultRoastStats() RoastStats {
	return RoastStats{StatDefault, StatDefault, StatDefault, StatDefault, StatDefault, StatDefault}
}

// Clamp bounds every stat to StatMin..StatMax.
func (s RoastStats) Clamp() RoastStats {
	return RoastStats{
		HorninessLevel:     clampStat(s.HorninessLevel),
		PlotArmorThickness: clampStat(s.PlotArmorThickness),
		FillerHell:         clampStat(s.FillerHell),
		PowerCreep:         clampStat(s.PowerCreep),
		CringeFactor:       clampStat(s.CringeFactor),
		FanToxicity:        clampStat(s.FanToxicity),
	}
}

func clampStat(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

// ReviewAnalysis summarizes the community reviews fed into a roast prompt.
type ReviewAnalysis struct {
	ReviewCount   int      `json:"review_count"`
	AverageRating float64  `json:"average_rating"`
	TopCriticisms []string `json:"top_criticisms"`
	SpicyQuotes   []string `json:"spicy_quotes"`
	Summary       string   `json:"summary"`
}

// GenerateRoastRequest is the body of POST /api/generate-roast.
type GenerateRoastRequest struct {
	AnimeName string `json:"anime_name" binding:"required"`
	AnimeID   int    `json:"anime_id"`
}

// RoastResponse is what the roast endpoint returns and what the cache stores.
type RoastResponse struct {
	AnimeName      string                `json:"anime_name"`
	Roast          string                `json:"roast"`
	Stats          RoastStats            `json:"stats"`
	CoverImage     string                `json:"cover_image,omitempty"`
	AnimeDetails   *anilist.AnimeDetails `json:"anime_details,omitempty"`
	ReviewAnalysis *ReviewAnalysis       `json:"review_analysis,omitempty"`
	ReviewsUsed    int                   `json:"reviews_used"`
	Cached         bool                  `json:"cached"`
}
