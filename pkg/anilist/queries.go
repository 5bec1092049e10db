package anilist

const searchAnimeQuery = `
query ($search: String, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(search: $search, type: ANIME, sort: POPULARITY_DESC) {
      id
      title { romaji english native }
      coverImage { large medium }
      episodes
      seasonYear
      averageScore
      format
    }
  }
}`

const getAnimeQuery = `
query ($id: Int) {
  Media(id: $id, type: ANIME) {
    id
    title { romaji english native }
    coverImage { large medium extraLarge }
    episodes
    seasonYear
    averageScore
    format
    description
    genres
    tags { name rank }
    studios { nodes { name } }
  }
}`

const getReviewsQuery = `
query ($mediaId: Int, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    reviews(mediaId: $mediaId, sort: RATING_DESC) {
      id
      summary
      body
      rating
      score
      user { name }
      createdAt
    }
  }
}`
