package commerce

import "time"

// Review is a user's rating of a vehicle.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	VehicleID string    `json:"vehicleId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewInput is the user-editable part of a review.
type ReviewInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// ReviewStats summarises the reviews of one vehicle.
type ReviewStats struct {
	AverageRating      float64     `json:"averageRating"`
	ReviewCount        int         `json:"reviewCount"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}
