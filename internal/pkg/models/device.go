package models

// DeviceStatus reflects the latest known state of a connected device.
type DeviceStatus string

const (
	StatusActive     DeviceStatus = "active"
	StatusIdle       DeviceStatus = "idle"
	StatusSOS        DeviceStatus = "sos"
	StatusLowBattery DeviceStatus = "low_battery"
	StatusOffline    DeviceStatus = "offline"
)

// UserType distinguishes the parties on a tracking connection.
type UserType string

const (
	UserTypeGuide    UserType = "guide"
	UserTypeTourist  UserType = "tourist"
	UserTypeOperator UserType = "operator"
)

// ValidUserType reports whether s names a known connection role.
func ValidUserType(s string) bool {
	switch UserType(s) {
	case UserTypeGuide, UserTypeTourist, UserTypeOperator:
		return true
	}
	return false
}
