package oasclient

// Version is the oasclient module version.
const Version = "0.1.0"
