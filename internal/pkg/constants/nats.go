package constants

// NATS Subjects
const (
	// Published by the tracking service
	SubjectLocationAnalyze = "tracking.location.analyze"
	SubjectSOSTriggered    = "tracking.sos"
	SubjectDeviceOffline   = "tracking.device.offline"

	// Consumed by the tracking service
	SubjectLocationAnalysis = "tracking.location.analysis"
)
