package models

// MonthlyVideoCount is one time bucket of the dashboard's trailing-six-month
// upload histogram.
type MonthlyVideoCount struct {
	Year  int `json:"year" db:"year"`
	Month int `json:"month" db:"month"`
	Count int `json:"count" db:"count"`
}

// ChannelStats aggregates a channel owner's dashboard numbers. The five
// sections are independent read-only aggregations over the same tables.
type ChannelStats struct {
	TotalSubscribers int64                `json:"total_subscribers"`
	TotalVideos      int64                `json:"total_videos"`
	TotalViews       int64                `json:"total_views"`
	TotalLikes       int64                `json:"total_likes"`
	VideosByMonth    []*MonthlyVideoCount `json:"videos_by_month"`
	TopVideos        []*Video             `json:"top_videos"`
}
