package core

// Version is the firmware version shown on the welcome screen and reported in telemetry
const Version = "v0.1.0"
