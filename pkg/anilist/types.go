package anilist

import "time"

// Title holds the localized names of a media entry
type Title struct {
	Romaji  string `json:"romaji,omitempty"`
	English string `json:"english,omitempty"`
	Native  string `json:"native,omitempty"`
}

// Display prefers the English title, then Romaji, then Native.
func (t Title) Display() string {
	switch {
	case t.English != "":
		return t.English
	case t.Romaji != "":
		return t.Romaji
	case t.Native != "":
		return t.Native
	default:
		return "Unknown"
	}
}

type CoverImage struct {
	Large      string `json:"large,omitempty"`
	Medium     string `json:"medium,omitempty"`
	ExtraLarge string `json:"extra_large,omitempty"`
}

// Best returns the largest available cover URL.
func (c CoverImage) Best() string {
	switch {
	case c.ExtraLarge != "":
		return c.ExtraLarge
	case c.Large != "":
		return c.Large
	default:
		return c.Medium
	}
}

// Anime is a search result
type Anime struct {
	ID         int        `json:"id"`
	Title      Title      `json:"title"`
	CoverImage CoverImage `json:"cover_image"`
	Episodes   *int       `json:"episodes"`
	Year       *int       `json:"year"`
	Score      *int       `json:"score"`
	Format     string     `json:"format,omitempty"`
}

type Tag struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// AnimeDetails adds the descriptive fields returned by a lookup by id
type AnimeDetails struct {
	Anime
	Description string   `json:"description,omitempty"`
	Genres      []string `json:"genres"`
	Tags        []Tag    `json:"tags,omitempty"`
	Studios     []string `json:"studios"`
}

type Review struct {
	ID        int       `json:"id"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	Rating    int       `json:"rating"`
	Score     int       `json:"score"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Wire types

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type graphQLResponse struct {
	Errors []graphQLError `json:"errors"`
}

type mediaNode struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  *string `json:"romaji"`
		English *string `json:"english"`
		Native  *string `json:"native"`
	} `json:"title"`
	CoverImage struct {
		Large      *string `json:"large"`
		Medium     *string `json:"medium"`
		ExtraLarge *string `json:"extraLarge"`
	} `json:"coverImage"`
	Episodes     *int    `json:"episodes"`
	SeasonYear   *int    `json:"seasonYear"`
	AverageScore *int    `json:"averageScore"`
	Format       *string `json:"format"`
	Description  *string `json:"description"`
	Genres       []string `json:"genres"`
	Tags         []Tag    `json:"tags"`
	Studios      struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"studios"`
}

type reviewNode struct {
	ID      int     `json:"id"`
	Summary *string `json:"summary"`
	Body    *string `json:"body"`
	Rating  *int    `json:"rating"`
	Score   *int    `json:"score"`
	User    *struct {
		Name string `json:"name"`
	} `json:"user"`
	CreatedAt int64 `json:"createdAt"`
}

type searchData struct {
	Page struct {
		Media []mediaNode `json:"media"`
	} `json:"Page"`
}

type mediaData struct {
	Media *mediaNode `json:"Media"`
}

type reviewsData struct {
	Page struct {
		Reviews []reviewNode `json:"reviews"`
	} `json:"Page"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func (m mediaNode) toAnime() Anime {
	return Anime{
		ID: m.ID,
		Title: Title{
			Romaji:  str(m.Title.Romaji),
			English: str(m.Title.English),
			Native:  str(m.Title.Native),
		},
		CoverImage: CoverImage{
			Large:      str(m.CoverImage.Large),
			Medium:     str(m.CoverImage.Medium),
			ExtraLarge: str(m.CoverImage.ExtraLarge),
		},
		Episodes: m.Episodes,
		Year:     m.SeasonYear,
		Score:    m.AverageScore,
		Format:   str(m.Format),
	}
}

func (m mediaNode) toDetails() AnimeDetails {
	studios := make([]string, 0, len(m.Studios.Nodes))
	for _, s := range m.Studios.Nodes {
		if s.Name != "" {
			studios = append(studios, s.Name)
		}
	}
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return AnimeDetails{
		Anime:       m.toAnime(),
		Description: str(m.Description),
		Genres:      genres,
		Tags:        m.Tags,
		Studios:     studios,
	}
}

func (r reviewNode) toReview() Review {
	review := Review{
		ID:      r.ID,
		Summary: str(r.Summary),
		Body:    str(r.Body),
		Rating:  num(r.Rating),
		Score:   num(r.Score),
	}
	if r.User != nil {
		review.User = r.User.Name
	}
	if r.CreatedAt > 0 {
		review.CreatedAt = time.Unix(r.CreatedAt, 0).UTC()
	}
	return review
}
