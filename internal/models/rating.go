package models

// Lo que está en Mongo (igual al ratings.csv de MovieLens)
type Rating struct {
	UserID    int     `json:"userId" bson:"userId"`
	MovieID   int     `json:"movieId" bson:"movieId"`
	Rating    float64 `json:"rating" bson:"rating"`
	Timestamp int64   `json:"timestamp" bson:"timestamp"`
}
