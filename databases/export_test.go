package databases

// Exported for the external test package
var (
	OpenGormGateway  = openGormGateway
	OpenMongoGateway = openMongoGateway
)
