package constants

// Redis key formats
const (
	KeyDeviceLastFix = "device:fix:%s"    // Format: device:fix:{user_id}
	KeyDeviceStatus  = "device:status:%s" // Format: device:status:{user_id}
	KeyDeviceGeo     = "devices:geo"      // Geo set of all device positions
)

// Redis hash fields
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lng"
	FieldTimestamp = "ts"
	FieldBattery   = "battery"
	FieldTourID    = "tour_id"
)
