package models

// Tag fila de tags.csv de MovieLens.
type Tag struct {
	UserID    int    `json:"userId" bson:"userId"`
	MovieID   int    `json:"movieId" bson:"movieId"`
	Tag       string `json:"tag" bson:"tag"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}

// Link ids externos de la película (links.csv). TmdbID puede faltar.
type Link struct {
	MovieID int    `json:"movieId" bson:"movieId"`
	ImdbID  string `json:"imdbId" bson:"imdbId"`
	TmdbID  *int   `json:"tmdbId,omitempty" bson:"tmdbId,omitempty"`
}
