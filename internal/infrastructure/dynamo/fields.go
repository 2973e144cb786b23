package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldIsRead          = "is_read"
	fieldStatus          = "status"
	fieldName            = "name"
	fieldBackgroundImage = "background_image"
	fieldUpdatedAt       = "updated_at"
)
