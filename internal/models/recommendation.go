package models

import "time"

// Estrategias de recomendación.
const (
	StrategyContent       = "content"
	StrategyCollaborative = "collaborative"
	StrategyPopular       = "popular"
	StrategyHybrid        = "hybrid"
	StrategySimilarity    = "similarity"
	StrategyUserBased     = "user-based"
	StrategyGenre         = "genre"
	StrategySearch        = "search"
)

// Recommendation es un ítem de una lista de recomendaciones.
// Score cambia de significado según la estrategia (similitud, rating
// promedio o puntaje híbrido), por eso no se compara entre estrategias.
type Recommendation struct {
	MovieID  int     `json:"movieId" bson:"movieId"`
	Title    string  `json:"title" bson:"title"`
	Genres   string  `json:"genres" bson:"genres"`
	Year     *int    `json:"year,omitempty" bson:"year,omitempty"`
	Score    float64 `json:"score" bson:"score"`
	Strategy string  `json:"strategy" bson:"strategy"`

	Similarity     float64 `json:"similarity,omitempty" bson:"similarity,omitempty"`
	AvgRating      float64 `json:"avg_rating,omitempty" bson:"avg_rating,omitempty"`
	RatingCount    int     `json:"rating_count,omitempty" bson:"rating_count,omitempty"`
	Rating         float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	UserSimilarity float64 `json:"user_similarity,omitempty" bson:"user_similarity,omitempty"`
	HybridScore    float64 `json:"hybrid_score,omitempty" bson:"hybrid_score,omitempty"`
}

// RecommendationRun es el historial guardado en la colección recommendations.
type RecommendationRun struct {
	ID        string           `bson:"_id,omitempty" json:"id"`
	UserID    int              `bson:"userId" json:"userId"`
	Algo      string           `bson:"algo" json:"algo"`
	Metric    string           `bson:"similarityMetric" json:"similarityMetric"`
	Params    map[string]any   `bson:"params" json:"params"`
	Items     []Recommendation `bson:"items" json:"items"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
}

// RecommendationList es la respuesta de los endpoints de recomendaciones.
type RecommendationList struct {
	MovieID         *int             `json:"movie_id,omitempty"`
	UserID          *int             `json:"user_id,omitempty"`
	Genres          []string         `json:"genres,omitempty"`
	Method          string           `json:"method"`
	Explanation     string           `json:"explanation,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
	Count           int              `json:"count"`
}
