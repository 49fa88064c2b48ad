package handlers

import (
	"time"

	"server/internal/domain"
)

type scheduleMaterialResponse struct {
	MaterialID string  `json:"material_id"`
	Name       string  `json:"name"`
	QuantityKg float64 `json:"quantity_kg"`
}

type scheduleResponse struct {
	ID                string                     `json:"id"`
	DonorID           string                     `json:"donor_id"`
	DonorName         string                     `json:"donor_name,omitempty"`
	CollectorID       *string                    `json:"collector_id"`
	CollectorName     string                     `json:"collector_name,omitempty"`
	Status            string                     `json:"status"`
	ScheduledAt       time.Time                  `json:"scheduled_at"`
	Notes             string                     `json:"notes,omitempty"`
	PickupAddressText string                     `json:"pickup_address_text"`
	PickupLat         *float64                   `json:"pickup_lat"`
	PickupLng         *float64                   `json:"pickup_lng"`
	Materials         []scheduleMaterialResponse `json:"materials"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

func newScheduleResponse(s *domain.Schedule, locale string) scheduleResponse {
	materials := make([]scheduleMaterialResponse, 0, len(s.Materials))
	for _, m := range s.Materials {
		materials = append(materials, scheduleMaterialResponse{
			MaterialID: m.Material.ID,
			Name:       m.Material.Name(locale),
			QuantityKg: m.QuantityKg,
		})
	}
	return scheduleResponse{
		ID:                s.ID,
		DonorID:           s.DonorID,
		DonorName:         s.DonorName,
		CollectorID:       s.CollectorID,
		CollectorName:     s.CollectorName,
		Status:            string(s.Status),
		ScheduledAt:       s.ScheduledAt,
		Notes:             s.Notes,
		PickupAddressText: s.PickupAddressText,
		PickupLat:         s.PickupLat,
		PickupLng:         s.PickupLng,
		Materials:         materials,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

type locationResponse struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Heading    *float64  `json:"heading"`
	SpeedKmh   *float64  `json:"speed_kmh"`
	RecordedAt time.Time `json:"recorded_at"`
}

func newLocationResponse(s *domain.LocationSample) locationResponse {
	return locationResponse{
		Lat:        s.Lat,
		Lng:        s.Lng,
		Heading:    s.Heading,
		SpeedKmh:   s.SpeedKmh,
		RecordedAt: s.RecordedAt,
	}
}
