package model

// InteractionView is recorded when a user opens a recommendation.
const InteractionView = "VIEW"

// Recommendation is a server-curated learning resource.
type Recommendation struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Reason    string `json:"reason"`
	URL       string `json:"url"`
	Type      string `json:"type"`
	Tags      string `json:"tags"`
	CreatedAt string `json:"createdAt"`
}

// Interaction is the body of a track-interaction request.
type Interaction struct {
	RecommendationID int64  `json:"recommendationId"`
	Type             string `json:"type"`
}
