package common

// AppName - Application name.
const AppName = "FabricMap"

// AppVersion - Application version.
const AppVersion = "0.1.0"

// AppAuthor - Application author.
const AppAuthor = "Rackwire"
