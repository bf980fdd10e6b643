package models

// Requests for chart HTTP endpoints. Defined in domain for consistency and reuse.

// BuildChartRequest carries one birth moment and location. DateTime accepts
// RFC3339 or a bare local timestamp ("2006-01-02T15:04:05"); a bare value is
// resolved against TZOffsetHours.
type BuildChartRequest struct {
	DateTime      string  `json:"date_time" validate:"required"`
	Latitude      float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64 `json:"longitude" validate:"gte=-180,lte=180"`
	TZOffsetHours float64 `json:"tz_offset_hours" default:"0" validate:"gte=-14,lte=14"`
}

// CompareChartsRequest carries two previously built chart payloads.
type CompareChartsRequest struct {
	Chart1 NatalChart `json:"chart1" validate:"required"`
	Chart2 NatalChart `json:"chart2" validate:"required"`
}
