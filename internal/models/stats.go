package models

// EngineInfo estado del motor (para /api/stats y /api/health).
type EngineInfo struct {
	State            string   `json:"state"`
	Loaded           bool     `json:"loaded"`
	MoviesLoaded     int      `json:"movies_loaded"`
	RatingsLoaded    int      `json:"ratings_loaded"`
	MatrixShape      [2]int   `json:"matrix_shape"`
	AvailableMethods []string `json:"available_methods"`
	LoadDuration     string   `json:"load_duration,omitempty"`
	SimCacheHitRatio float64  `json:"sim_cache_hit_ratio"`
	LastError        string   `json:"last_error,omitempty"`
}

type DatabaseStats struct {
	Collections int64 `json:"collections"`
	DataSize    int64 `json:"data_size"`
	StorageSize int64 `json:"storage_size"`
	Movies      int64 `json:"movies"`
	Ratings     int64 `json:"ratings"`
	Users       int64 `json:"users"`
}

type SystemStats struct {
	Database DatabaseStats     `json:"database"`
	Cache    map[string]string `json:"cache"`
	Engine   EngineInfo        `json:"engine"`
	Uptime   float64           `json:"uptime"`
}
