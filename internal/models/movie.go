package models

import "strings"

// Movie es el documento de la colección movies (migrado de movies.csv).
// MovieID es el id estable de MovieLens; el _id de Mongo nunca se expone.
type Movie struct {
	MovieID int    `json:"movieId" bson:"movieId"`
	Title   string `json:"title" bson:"title"`
	Genres  string `json:"genres" bson:"genres"` // "Action|Comedy"
	Year    *int   `json:"year,omitempty" bson:"year,omitempty"`
}

// GenreList separa la lista de géneros delimitada por "|".
func (m Movie) GenreList() []string {
	if m.Genres == "" {
		return nil
	}
	var out []string
	for _, g := range strings.Split(m.Genres, "|") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// MovieFilter son los filtros de listado/búsqueda.
type MovieFilter struct {
	Genre  string
	Year   int
	Search string
}

// MoviePage respuesta paginada de GET /api/movies.
type MoviePage struct {
	Movies  []Movie `json:"movies"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	HasMore bool    `json:"has_more"`
}

// RatingStats agregado de ratings por película.
type RatingStats struct {
	Average float64 `json:"avg_rating" bson:"avg_rating"`
	Count   int     `json:"total_ratings" bson:"total_ratings"`
	Min     float64 `json:"min_rating" bson:"min_rating"`
	Max     float64 `json:"max_rating" bson:"max_rating"`
}

// MovieDetail es la respuesta de GET /api/movies/{id}.
type MovieDetail struct {
	Movie
	Stats         RatingStats      `json:"stats"`
	SimilarMovies []Recommendation `json:"similar_movies"`
	UsersWhoRated int              `json:"users_who_rated"`
}

type GenreCount struct {
	Genre string `json:"genre" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}
