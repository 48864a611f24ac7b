package domain

import "errors"

var ErrUnknownTargetType = errors.New("unknown_target_type")

// TargetType is the closed set of reviewable entity kinds.
type TargetType string

const (
	TargetGuide      TargetType = "guide"
	TargetHotel      TargetType = "hotel"
	TargetVehicle    TargetType = "vehicle"
	TargetTour       TargetType = "tour"
	TargetCustomTrip TargetType = "custom_trip"
)

// TargetDescriptor tells callers which role owns a target kind and which
// detailed-rating categories are legal for it.
type TargetDescriptor struct {
	OwnerRole          string
	DetailedCategories []string
}

var targetRegistry = map[TargetType]TargetDescriptor{
	TargetGuide: {
		OwnerRole:          "guide",
		DetailedCategories: []string{"knowledge", "communication", "punctuality"},
	},
	TargetHotel: {
		OwnerRole:          "hotel_manager",
		DetailedCategories: []string{"cleanliness", "location", "service", "value"},
	},
	TargetVehicle: {
		OwnerRole:          "vehicle_owner",
		DetailedCategories: []string{"comfort", "condition", "driver"},
	},
	TargetTour: {
		OwnerRole:          "tour_operator",
		DetailedCategories: []string{"itinerary", "organization", "value"},
	},
	TargetCustomTrip: {
		OwnerRole:          "trip_planner",
		DetailedCategories: []string{"planning", "flexibility", "value"},
	},
}

// ResolveTarget looks up the descriptor for a target type.
func ResolveTarget(t TargetType) (TargetDescriptor, error) {
	d, ok := targetRegistry[t]
	if !ok {
		return TargetDescriptor{}, ErrUnknownTargetType
	}
	return d, nil
}

// AllowsCategory reports whether name is a legal detailed-rating category.
func (d TargetDescriptor) AllowsCategory(name string) bool {
	for _, c := range d.DetailedCategories {
		if c == name {
			return true
		}
	}
	return false
}
