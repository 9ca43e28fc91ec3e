package model

// SearchResult lists the result files found for a search pattern.
type SearchResult struct {
	FilesToUpload []string // In discovery order.
	RootDirectory string   // Lowest common ancestor of FilesToUpload, for logging.
}
