package booking

import "drutaseva/models"

// The ambulance catalog is fixed reference data: exactly three tiers, priced in
// rupees, with the vehicle metadata the dispatcher assigns on confirmation.
var ambulanceCatalog = map[string]models.AmbulanceOption{
	"basic": {
		ID:            "basic",
		Name:          "Basic Life Support",
		Description:   "Standard ambulance with basic medical equipment",
		Price:         1500,
		PlateNumber:   "CA-123456",
		DriverName:    "Suresh Patel",
		DriverContact: "+91 98765 43210",
		EstimatedTime: "10 mins",
	},
	"advanced": {
		ID:            "advanced",
		Name:          "Advanced Life Support",
		Description:   "Fully equipped ambulance with advanced medical equipment",
		Price:         2500,
		PlateNumber:   "CA-789012",
		DriverName:    "Rajesh Kumar",
		DriverContact: "+91 98765 43211",
		EstimatedTime: "12 mins",
	},
	"critical": {
		ID:            "critical",
		Name:          "Critical Care",
		Description:   "Specialized ambulance for critical patients with life support systems",
		Price:         3500,
		PlateNumber:   "CA-345678",
		DriverName:    "Amit Singh",
		DriverContact: "+91 98765 43212",
		EstimatedTime: "15 mins",
	},
}

// catalogOrder keeps listing stable for clients.
var catalogOrder = []string{"basic", "advanced", "critical"}

// AmbulanceOptions returns the full catalog in display order.
func AmbulanceOptions() []models.AmbulanceOption {
	options := make([]models.AmbulanceOption, 0, len(catalogOrder))
	for _, id := range catalogOrder {
		options = append(options, ambulanceCatalog[id])
	}
	return options
}

// LookupAmbulance resolves a catalog id. Unknown ids are a not-found state,
// never a crash.
func LookupAmbulance(id string) (models.AmbulanceOption, error) {
	option, ok := ambulanceCatalog[id]
	if !ok {
		return models.AmbulanceOption{}, NewNotFoundError("unknown ambulance service: " + id)
	}
	return option, nil
}
