package version

// Version is reported by evr --version.
const Version = "v0.1.0"
