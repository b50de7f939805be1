package constants

const (
	SecondsPerMinute = 60
	SecondsPerHour   = 3600
)
