package models

// AmbulanceOption is a read-only catalog entry describing one service tier.
type AmbulanceOption struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int    `json:"price"` // rupees
	PlateNumber   string `json:"plateNumber"`
	DriverName    string `json:"driverName"`
	DriverContact string `json:"driverContact"`
	EstimatedTime string `json:"estimatedTime"`
}

// AssignedVehicle is the vehicle snapshot attached to a confirmed booking.
type AssignedVehicle struct {
	PlateNumber   string `bson:"plate_number" json:"plateNumber"`
	DriverName    string `bson:"driver_name" json:"driverName"`
	DriverContact string `bson:"driver_contact" json:"driverContact"`
}
