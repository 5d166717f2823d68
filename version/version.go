package version

// Version is the tag of the current release of the engine.
const Version = "0.1.0"
