package models

// SimilarityResult respuesta de /api/similarity/{id1}/{id2}.
type SimilarityResult struct {
	Movie1         Movie              `json:"movie1"`
	Movie2         Movie              `json:"movie2"`
	SelectedMethod string             `json:"selected_method"`
	Similarity     float64            `json:"similarity"`
	Explanation    string             `json:"explanation"`
	AllMethods     map[string]float64 `json:"all_methods"`
	Comparison     MovieComparison    `json:"comparison"`
}

type MovieComparison struct {
	GenresMatch bool `json:"genres_match"`
	YearDiff    int  `json:"year_diff"`
}

// MethodInfo describe una métrica de similitud.
type MethodInfo struct {
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
	Range       string `json:"range"`
	BestFor     string `json:"best_for"`
	Formula     string `json:"formula"`
}
