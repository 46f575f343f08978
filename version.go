package termindex

// Version is the termindex release version.
const Version = "0.1.0"
