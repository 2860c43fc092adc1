package dashboard

import "codeberg.org/weconnect/server/weconnect/analytics"

type StatsResponse struct {
	Range string                 `json:"range"`
	Stats analytics.SummaryStats `json:"stats"`
}

type SeriesResponse struct {
	Range   string             `json:"range"`
	Buckets []analytics.Bucket `json:"buckets"`
}
