package geo

import (
	"encoding/json"

	"github.com/izwi-app/izwi/internal/constants"
	"github.com/izwi-app/izwi/internal/models"
	"github.com/izwi-app/izwi/internal/utils"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// MapSnapshot is embedded into the dashboard page as inline JSON and
// consumed by the client map script.
type MapSnapshot struct {
	Alerts        FeatureCollection `json:"alerts"`
	Boundary      json.RawMessage   `json:"boundary,omitempty"`
	DefaultCenter [2]float64        `json:"default_center"`
}

// ToFeatureCollection converts alerts into GeoJSON point features.
// GeoJSON coordinates are [longitude, latitude].
func ToFeatureCollection(alerts []models.Alert) FeatureCollection {
	features := make([]Feature, 0, len(alerts))

	for i := range alerts {
		a := &alerts[i]
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{a.Longitude, a.Latitude},
			},
			Properties: map[string]any{
				"id":           a.ID,
				"category":     string(a.Category),
				"icon":         a.Category.Icon(),
				"color":        a.Category.Color(),
				"description":  a.Description,
				"author":       a.User.DisplayName(),
				"time_ago":     utils.FormatTimeAgo(a.CreatedAt),
				"has_location": a.HasLocation(),
				"resolved":     a.Resolved,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// BuildMapSnapshot assembles the inline payload for a community's
// dashboard map.
func BuildMapSnapshot(alerts []models.Alert, boundaryData string) MapSnapshot {
	snapshot := MapSnapshot{
		Alerts: ToFeatureCollection(alerts),
		DefaultCenter: [2]float64{
			constants.DefaultMapLatitude,
			constants.DefaultMapLongitude,
		},
	}
	if boundaryData != "" && json.Valid([]byte(boundaryData)) {
		snapshot.Boundary = json.RawMessage(boundaryData)
	}
	return snapshot
}

// EncodeSnapshot serializes the snapshot for template embedding.
func EncodeSnapshot(snapshot MapSnapshot) (string, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
