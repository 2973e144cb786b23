package domain

import "time"

// Board is the board document. Users holds member identifiers as
// canonical strings and never includes the owner; CreatedBy is implicitly
// a member. BoardID is assigned by the caller at creation, not generated
// by the store.
type Board struct {
	BoardID         string    `json:"id" dynamodbav:"board_id"`
	Name            string    `json:"name" dynamodbav:"name"`
	CreatedBy       string    `json:"created_by" dynamodbav:"created_by"`
	BackgroundImage string    `json:"background_image" dynamodbav:"background_image"`
	Users           []string  `json:"users" dynamodbav:"users"`
	DateCreated     time.Time `json:"date_created" dynamodbav:"date_created"`
}

type CreateBoardRequest struct {
	BoardID         string `json:"id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	BackgroundImage string `json:"background_image"`
}

type UpdateBoardRequest struct {
	Name            *string `json:"name"`
	BackgroundImage *string `json:"background_image"`
}

// BoardAudit is the operator-facing diagnostic view of a single board's
// membership list, including the stored attribute type of every entry so
// representation drift is visible.
type BoardAudit struct {
	BoardID   string           `json:"id"`
	Name      string           `json:"name"`
	CreatedBy string           `json:"created_by"`
	Users     []AuditUserEntry `json:"users"`
}

// AuditUserEntry reports one raw element of a board's users list.
// Kind is the stored DynamoDB attribute type: "string", "number" or the
// raw Go type name for anything else.
type AuditUserEntry struct {
	Value string `json:"value"`
	Kind  string `json:"kind"`
}
