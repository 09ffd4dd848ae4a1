package constants

// Commands routed from operators to devices. The dispatcher treats commands
// as opaque strings; these are the ones the stock operator console sends.
const (
	CommandRequestLocation = "REQUEST_LOCATION"
	CommandActivateSOS     = "ACTIVATE_SOS"
)

// WebSocket error codes
const (
	ErrorInvalidFormat      = "invalid_format"
	ErrorInvalidLocation    = "invalid_location"
	ErrorInvalidSOS         = "invalid_sos"
	ErrorUnauthorized       = "unauthorized"
	ErrorInternalError      = "internal_error"
	ErrorDeviceNotConnected = "device_not_connected"
)
