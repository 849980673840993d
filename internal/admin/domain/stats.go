package domain

// DashboardStats backs the stat cards on the dashboard landing page.
type DashboardStats struct {
	TotalUsers     int     `json:"totalUsers"`
	TotalAnimals   int     `json:"totalAnimals"`
	MissingAnimals int     `json:"missingAnimals"`
	FoundAnimals   int     `json:"foundAnimals"`
	MatchesTotal   int     `json:"matchesTotal"`
	MatchesToday   int     `json:"matchesToday"`
	MatchRate      float64 `json:"matchRate"`
}

// ActivityPoint is one sample in the user-activity chart.
type ActivityPoint struct {
	Date         string `json:"date"`
	ActiveUsers  int    `json:"activeUsers"`
	NewListings  int    `json:"newListings"`
	MatchesFound int    `json:"matchesFound"`
}

// RecentAnimal is a row in the dashboard's recent-listings widget.
type RecentAnimal struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Species   string `json:"species"`
	Kind      string `json:"kind"`
	ImageURL  string `json:"imageUrl"`
	CreatedAt string `json:"createdAt"`
}
