package dynamo

// DynamoDB attribute names used in update expressions and filter expressions
// across the repos. Using constants prevents silent runtime bugs caused by
// key typos.
const (
	fieldUserID       = "user_id"
	fieldPropertyID   = "property_id"
	fieldEmail        = "email"
	fieldRefreshToken = "refresh_token"
	fieldReceiverID   = "receiver_id"
	fieldEdgeID       = "edge_id"
	fieldUpdatedAt    = "updated_at"
)
