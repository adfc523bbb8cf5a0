package ws

// Event types pushed over the notification socket.
const (
	EventCollectionStatus     = "collection.status"
	EventOrganizationVerified = "organization.verified"
	EventOrganizationRejected = "organization.rejected"
)
